package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a single log category. Categories are bits so that a Mask can
// admit any combination of them.
type Level uint32

const (
	LevelDebug Level = 1 << iota
	LevelInfo
	LevelWarn
	LevelError
	LevelTrace
	LevelTime // 32, the timing category
)

// Custom zap levels for the categories zap does not know about.
const (
	TraceLevel = zapcore.DebugLevel - 1
	TimeLevel  = zapcore.DebugLevel - 2
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelTrace:
		return "TRACE"
	case LevelTime:
		return "TIME"
	default:
		return "LEVEL?"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelTrace:
		return TraceLevel
	case LevelTime:
		return TimeLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelFromZap(z zapcore.Level) Level {
	switch z {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.InfoLevel:
		return LevelInfo
	case zapcore.WarnLevel:
		return LevelWarn
	case TraceLevel:
		return LevelTrace
	case TimeLevel:
		return LevelTime
	default:
		return LevelError
	}
}

// Mask selects which categories reach the output.
type Mask uint32

const (
	MaskAll    = ^Mask(0)
	MaskDebug  = Mask(LevelDebug | LevelInfo | LevelWarn | LevelError | LevelTime)
	MaskNormal = Mask(LevelInfo | LevelWarn | LevelError | LevelTime)
	MaskTime   = Mask(LevelTime)
	MaskError  = Mask(LevelError)
)

// ParseMask maps a verbosity selector to its mask. The long names and the
// single-letter forms are accepted; anything else selects MaskNormal.
func ParseMask(s string) Mask {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "a":
		return MaskAll
	case "debug", "d":
		return MaskDebug
	case "normal", "n":
		return MaskNormal
	case "time-only", "time", "t":
		return MaskTime
	case "error-only", "error", "e":
		return MaskError
	default:
		return MaskNormal
	}
}

// Allows reports whether l passes the mask.
func (m Mask) Allows(l Level) bool { return Mask(l)&m != 0 }

func (m Mask) String() string {
	switch m {
	case MaskAll:
		return "all"
	case MaskDebug:
		return "debug"
	case MaskNormal:
		return "normal"
	case MaskTime:
		return "time-only"
	case MaskError:
		return "error-only"
	}
	var parts []string
	for l := LevelDebug; l <= LevelTime; l <<= 1 {
		if m.Allows(l) {
			parts = append(parts, l.String())
		}
	}
	return strings.Join(parts, "|")
}

// encodeLevel prints the category name, including the custom zap levels.
func encodeLevel(z zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch z {
	case TraceLevel:
		enc.AppendString("TRACE")
	case TimeLevel:
		enc.AppendString("TIME")
	default:
		zapcore.CapitalLevelEncoder(z, enc)
	}
}

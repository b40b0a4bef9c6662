// Package logging is the mask-filtered logger shared by every maxbench
// package. Messages are formatted only when their category passes the mask,
// and are written through a zap core.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger emits category-tagged messages for a named method.
type Logger struct {
	mask Mask
	zl   *zap.Logger
}

// New returns a console logger writing to w.
func New(w io.Writer, mask Mask) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = encodeLevel
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(w)),
		maskEnabler(mask),
	)
	return &Logger{mask: mask, zl: zap.New(core)}
}

// NewFromCore wraps an existing core, e.g. a zaptest observer.
func NewFromCore(core zapcore.Core, mask Mask) *Logger {
	return &Logger{mask: mask, zl: zap.New(core)}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{mask: 0, zl: zap.NewNop()}
}

func maskEnabler(mask Mask) zap.LevelEnablerFunc {
	return func(z zapcore.Level) bool {
		return mask.Allows(levelFromZap(z))
	}
}

// Mask returns the active category mask.
func (l *Logger) Mask() Mask { return l.mask }

// Enabled reports whether messages of category lv are written.
func (l *Logger) Enabled(lv Level) bool { return l.mask.Allows(lv) }

// With returns a logger that attaches fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{mask: l.mask, zl: l.zl.With(fields...)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger { return l.zl }

// Logf formats and writes one message when lv passes the mask.
func (l *Logger) Logf(lv Level, method, format string, args ...any) {
	if !l.Enabled(lv) {
		return
	}
	zl := l.zl
	if method != "" {
		zl = zl.Named(method)
	}
	if ce := zl.Check(lv.zapLevel(), fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Debugf(method, format string, args ...any) {
	l.Logf(LevelDebug, method, format, args...)
}

func (l *Logger) Tracef(method, format string, args ...any) {
	l.Logf(LevelTrace, method, format, args...)
}

func (l *Logger) Infof(method, format string, args ...any) {
	l.Logf(LevelInfo, method, format, args...)
}

func (l *Logger) Warnf(method, format string, args ...any) {
	l.Logf(LevelWarn, method, format, args...)
}

func (l *Logger) Errorf(method, format string, args ...any) {
	l.Logf(LevelError, method, format, args...)
}

// Timef writes on the timing category. Timing lines keep the
// "key=<seconds>;" shape so they can be grepped out of the output.
func (l *Logger) Timef(method, format string, args ...any) {
	l.Logf(LevelTime, method, format, args...)
}

// Sync flushes buffered output.
func (l *Logger) Sync() error { return l.zl.Sync() }

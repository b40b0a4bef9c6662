package reduce

import (
	"errors"
	"fmt"
)

// Kind classifies a failed reduction run.
type Kind int

const (
	// KindConfiguration covers bad inputs, unreadable kernel source and a
	// missing kernel entry point.
	KindConfiguration Kind = iota + 1
	// KindCompile is a kernel build failure; the build log travels with it.
	KindCompile
	// KindRuntime is a device failure while transferring, binding,
	// dispatching or reading back.
	KindRuntime
	// KindUnsupported is a request the reducers do not handle.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindCompile:
		return "compile"
	case KindRuntime:
		return "runtime"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// RunError is the single error type a reduction run reports. Op names the
// operation that failed.
type RunError struct {
	Kind     Kind
	Op       string
	Err      error
	BuildLog string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Op, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first RunError in err's chain, or 0.
func KindOf(err error) Kind {
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func newError(kind Kind, op string, err error) *RunError {
	return &RunError{Kind: kind, Op: op, Err: err}
}

var (
	ErrEmptyDataset    = errors.New("empty dataset: maximum undefined")
	ErrNoDevice        = errors.New("context holds no device")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrDatasetTooLarge = errors.New("dataset length exceeds the kernel's uint32 count")
	ErrSessionClosed   = errors.New("session is closed")
)

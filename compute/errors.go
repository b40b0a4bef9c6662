package compute

import (
	"errors"
	"fmt"
)

// Status is a compute runtime status code. Values follow the OpenCL ones so
// that logs read the same across backends.
type Status int

const (
	StatusSuccess                   Status = 0
	StatusDeviceNotFound            Status = -1
	StatusOutOfResources            Status = -5
	StatusProfilingInfoNotAvailable Status = -7
	StatusBuildProgramFailure       Status = -11
	StatusInvalidValue              Status = -30
	StatusInvalidDevice             Status = -33
	StatusInvalidContext            Status = -34
	StatusInvalidQueueProperties    Status = -35
	StatusInvalidCommandQueue       Status = -36
	StatusInvalidMemObject          Status = -38
	StatusInvalidProgram            Status = -44
	StatusInvalidProgramExecutable  Status = -45
	StatusInvalidKernelName         Status = -46
	StatusInvalidKernel             Status = -48
	StatusInvalidArgIndex           Status = -49
	StatusInvalidArgValue           Status = -50
	StatusInvalidArgSize            Status = -51
	StatusInvalidKernelArgs         Status = -52
	StatusInvalidWorkDimension      Status = -53
	StatusInvalidWorkGroupSize      Status = -54
	StatusInvalidGlobalWorkSize     Status = -63
	StatusInvalidBufferSize         Status = -61
)

var statusNames = map[Status]string{
	StatusSuccess:                   "CL_SUCCESS",
	StatusDeviceNotFound:            "CL_DEVICE_NOT_FOUND",
	StatusOutOfResources:            "CL_OUT_OF_RESOURCES",
	StatusProfilingInfoNotAvailable: "CL_PROFILING_INFO_NOT_AVAILABLE",
	StatusBuildProgramFailure:       "CL_BUILD_PROGRAM_FAILURE",
	StatusInvalidValue:              "CL_INVALID_VALUE",
	StatusInvalidDevice:             "CL_INVALID_DEVICE",
	StatusInvalidContext:            "CL_INVALID_CONTEXT",
	StatusInvalidQueueProperties:    "CL_INVALID_QUEUE_PROPERTIES",
	StatusInvalidCommandQueue:       "CL_INVALID_COMMAND_QUEUE",
	StatusInvalidMemObject:          "CL_INVALID_MEM_OBJECT",
	StatusInvalidProgram:            "CL_INVALID_PROGRAM",
	StatusInvalidProgramExecutable:  "CL_INVALID_PROGRAM_EXECUTABLE",
	StatusInvalidKernelName:         "CL_INVALID_KERNEL_NAME",
	StatusInvalidKernel:             "CL_INVALID_KERNEL",
	StatusInvalidArgIndex:           "CL_INVALID_ARG_INDEX",
	StatusInvalidArgValue:           "CL_INVALID_ARG_VALUE",
	StatusInvalidArgSize:            "CL_INVALID_ARG_SIZE",
	StatusInvalidKernelArgs:         "CL_INVALID_KERNEL_ARGS",
	StatusInvalidWorkDimension:      "CL_INVALID_WORK_DIMENSION",
	StatusInvalidWorkGroupSize:      "CL_INVALID_WORK_GROUP_SIZE",
	StatusInvalidGlobalWorkSize:     "CL_INVALID_GLOBAL_WORK_SIZE",
	StatusInvalidBufferSize:         "CL_INVALID_BUFFER_SIZE",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("CL_STATUS(%d)", int(s))
}

// Error is a failed runtime call: the operation that failed, its status and
// an optional cause.
type Error struct {
	Status Status
	Op     string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s (%d)", e.Op, e.Status, int(e.Status))
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted message.
func Errorf(status Status, op, format string, args ...any) *Error {
	return &Error{Status: status, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// StatusOf extracts the status carried by err, or StatusSuccess for nil.
// Errors that carry no status report StatusInvalidValue.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return StatusInvalidValue
}

// ErrNoBackend is returned when a backend name is not registered.
var ErrNoBackend = errors.New("compute backend unavailable")

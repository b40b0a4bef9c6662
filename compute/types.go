// Package compute is the compute-offload API the reducers dispatch through.
// It is shaped after OpenCL: a backend hands out contexts for one device
// class, contexts own devices, buffers and programs, and an in-order command
// queue executes kernels and transfers.
package compute

import (
	"fmt"
	"strings"
)

// DeviceType is the class of accelerator a context is created for.
type DeviceType int

const (
	DeviceTypeCPU DeviceType = iota + 1
	DeviceTypeGPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeCPU:
		return "CPU"
	case DeviceTypeGPU:
		return "GPU"
	default:
		return fmt.Sprintf("DeviceType(%d)", int(t))
	}
}

// ParseDeviceType accepts "cpu" or "gpu" in any case.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(s) {
	case "cpu":
		return DeviceTypeCPU, nil
	case "gpu":
		return DeviceTypeGPU, nil
	}
	return 0, fmt.Errorf("unknown device type %q", s)
}

// DeviceInfo is the capability snapshot of one device.
type DeviceInfo struct {
	Name             string
	Vendor           string
	Type             DeviceType
	MaxComputeUnits  uint32
	MaxWorkItemSizes []int
	MaxWorkGroupSize int
	GlobalMemSize    uint64 // bytes
	LocalMemSize     uint64 // bytes
	Extensions       []string
}

// MemFlags control buffer creation.
type MemFlags uint32

const (
	MemReadWrite MemFlags = 1 << iota
	MemReadOnly
	MemWriteOnly
	MemCopyHostPtr
)

// QueueProperties control command queue creation.
type QueueProperties uint32

const (
	QueueProfilingEnable QueueProperties = 1 << iota
)

// LocalMem is a kernel argument that reserves Size bytes of work-group local
// memory. It carries no host data.
type LocalMem int

// ParamKind is the kind of one kernel parameter.
type ParamKind int

const (
	ParamGlobalBuffer ParamKind = iota + 1
	ParamUint32
	ParamInt32
	ParamLocalBuffer
)

func (k ParamKind) String() string {
	switch k {
	case ParamGlobalBuffer:
		return "__global int*"
	case ParamUint32:
		return "uint"
	case ParamInt32:
		return "int"
	case ParamLocalBuffer:
		return "__local int*"
	default:
		return "unknown"
	}
}

// Accepts reports whether v is a legal argument value for a parameter of
// kind k.
func (k ParamKind) Accepts(v any) bool {
	switch k {
	case ParamGlobalBuffer:
		_, ok := v.(Buffer)
		return ok
	case ParamUint32:
		_, ok := v.(uint32)
		return ok
	case ParamInt32:
		_, ok := v.(int32)
		return ok
	case ParamLocalBuffer:
		n, ok := v.(LocalMem)
		return ok && n > 0
	}
	return false
}

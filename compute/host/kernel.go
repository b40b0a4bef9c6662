package host

import (
	"github.com/openfluke/maxbench/compute"
)

// Kernel holds the argument bindings of one native kernel.
type Kernel struct {
	name     string
	params   []compute.ParamKind
	native   NativeKernel
	args     []any
	released bool
}

func (k *Kernel) Name() string { return k.name }
func (k *Kernel) NumArgs() int { return len(k.params) }

func (k *Kernel) SetArg(index int, value any) error {
	const op = "clSetKernelArg"
	if k.released {
		return compute.Errorf(compute.StatusInvalidKernel, op, "kernel released")
	}
	if index < 0 || index >= len(k.params) {
		return compute.Errorf(compute.StatusInvalidArgIndex, op, "index %d out of range [0,%d)", index, len(k.params))
	}
	switch kind := k.params[index]; kind {
	case compute.ParamLocalBuffer:
		n, ok := value.(compute.LocalMem)
		if !ok {
			return compute.Errorf(compute.StatusInvalidArgValue, op, "argument %d: %T is not local memory", index, value)
		}
		if n <= 0 || n%4 != 0 {
			return compute.Errorf(compute.StatusInvalidArgSize, op, "argument %d: local size %d bytes", index, int(n))
		}
	case compute.ParamGlobalBuffer:
		m, ok := value.(*Memory)
		if !ok || m.released.Load() {
			return compute.Errorf(compute.StatusInvalidMemObject, op, "argument %d: %T is not a live host buffer", index, value)
		}
	default:
		if !kind.Accepts(value) {
			return compute.Errorf(compute.StatusInvalidArgValue, op, "argument %d: %T does not match '%s'", index, value, kind)
		}
	}
	k.args[index] = value
	return nil
}

func (k *Kernel) Release() {
	k.released = true
	k.args = nil
}

func (k *Kernel) localBytes() int {
	total := 0
	for _, a := range k.args {
		if n, ok := a.(compute.LocalMem); ok {
			total += int(n)
		}
	}
	return total
}

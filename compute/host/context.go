package host

import (
	"github.com/openfluke/maxbench/compute"
)

// Context owns the devices of one class.
type Context struct {
	devices  []*device
	released bool
}

func (c *Context) Devices() []compute.Device {
	out := make([]compute.Device, len(c.devices))
	for i, d := range c.devices {
		out[i] = d
	}
	return out
}

func (c *Context) owns(d compute.Device) (*device, bool) {
	hd, ok := d.(*device)
	if !ok {
		return nil, false
	}
	for _, own := range c.devices {
		if own == hd {
			return hd, true
		}
	}
	return nil, false
}

func (c *Context) CreateQueue(d compute.Device, props compute.QueueProperties) (compute.Queue, error) {
	if c.released {
		return nil, compute.Errorf(compute.StatusInvalidContext, "clCreateCommandQueue", "context released")
	}
	hd, ok := c.owns(d)
	if !ok {
		return nil, compute.Errorf(compute.StatusInvalidDevice, "clCreateCommandQueue", "device not in context")
	}
	if props&^compute.QueueProfilingEnable != 0 {
		return nil, compute.Errorf(compute.StatusInvalidQueueProperties, "clCreateCommandQueue", "unsupported properties %#x", uint32(props))
	}
	return newQueue(hd, props&compute.QueueProfilingEnable != 0), nil
}

func (c *Context) CreateProgram(source string) (compute.Program, error) {
	if c.released {
		return nil, compute.Errorf(compute.StatusInvalidContext, "clCreateProgramWithSource", "context released")
	}
	if len(source) == 0 {
		return nil, compute.Errorf(compute.StatusInvalidValue, "clCreateProgramWithSource", "empty source")
	}
	return &Program{ctx: c, source: source, logs: map[*device]string{}}, nil
}

// CreateBuffer checks the request against the smallest device memory in the
// context, since the buffer must fit on every device.
func (c *Context) CreateBuffer(flags compute.MemFlags, host []int32) (compute.Buffer, error) {
	const op = "clCreateBuffer"
	if c.released {
		return nil, compute.Errorf(compute.StatusInvalidContext, op, "context released")
	}
	if len(host) == 0 {
		return nil, compute.Errorf(compute.StatusInvalidBufferSize, op, "zero-sized buffer")
	}
	bytes := uint64(len(host)) * 4
	for _, d := range c.devices {
		if bytes > d.info.GlobalMemSize {
			return nil, compute.Errorf(compute.StatusInvalidBufferSize, op,
				"%d bytes exceed global memory of %s (%d bytes)", bytes, d.info.Name, d.info.GlobalMemSize)
		}
	}
	m := &Memory{data: make([]int32, len(host))}
	if flags&compute.MemCopyHostPtr != 0 {
		copy(m.data, host)
	}
	return m, nil
}

func (c *Context) Release() { c.released = true }

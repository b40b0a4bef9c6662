package gpu

import (
	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
)

// Context owns one WebGPU device per adapter of its class. Buffers live on
// the first device, the one sessions run on.
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
	gd, ok := d.(*device)
	if !ok {
		return nil, false
	}
	for _, own := range c.devices {
		if own == gd {
			return gd, true
		}
	}
	return nil, false
}

func (c *Context) CreateQueue(d compute.Device, props compute.QueueProperties) (compute.Queue, error) {
	const op = "clCreateCommandQueue"
	if c.released {
		return nil, compute.Errorf(compute.StatusInvalidContext, op, "context released")
	}
	gd, ok := c.owns(d)
	if !ok {
		return nil, compute.Errorf(compute.StatusInvalidDevice, op, "device not in context")
	}
	if props&^compute.QueueProfilingEnable != 0 {
		return nil, compute.Errorf(compute.StatusInvalidQueueProperties, op, "unsupported properties %#x", uint32(props))
	}
	return newQueue(gd, props&compute.QueueProfilingEnable != 0), nil
}

func (c *Context) CreateProgram(source string) (compute.Program, error) {
	const op = "clCreateProgramWithSource"
	if c.released {
		return nil, compute.Errorf(compute.StatusInvalidContext, op, "context released")
	}
	if len(source) == 0 {
		return nil, compute.Errorf(compute.StatusInvalidValue, op, "empty source")
	}
	return &Program{
		ctx:     c,
		source:  source,
		modules: map[*device]*wgpu.ShaderModule{},
		logs:    map[*device]string{},
	}, nil
}

func (c *Context) CreateBuffer(flags compute.MemFlags, host []int32) (compute.Buffer, error) {
	const op = "clCreateBuffer"
	if c.released || len(c.devices) == 0 {
		return nil, compute.Errorf(compute.StatusInvalidContext, op, "context released")
	}
	d := c.devices[0]
	if len(host) == 0 {
		return nil, compute.Errorf(compute.StatusInvalidBufferSize, op, "zero-sized buffer")
	}
	size := uint64(len(host)) * 4
	if size > d.info.GlobalMemSize {
		return nil, compute.Errorf(compute.StatusInvalidBufferSize, op,
			"%d bytes exceed storage binding limit of %s (%d bytes)", size, d.info.Name, d.info.GlobalMemSize)
	}

	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	var (
		buf *wgpu.Buffer
		err error
	)
	if flags&compute.MemCopyHostPtr != 0 {
		buf, err = d.dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "maxbench_values",
			Contents: wgpu.ToBytes(host),
			Usage:    usage,
		})
	} else {
		buf, err = d.dev.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "maxbench_values",
			Size:  size,
			Usage: usage,
		})
	}
	if err != nil {
		return nil, &compute.Error{Status: compute.StatusOutOfResources, Op: op, Err: err}
	}
	return &Buffer{buf: buf, dev: d, n: len(host)}, nil
}

// Release closes every device of the context.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true
	for _, d := range c.devices {
		d.release()
	}
}

package gpu

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
)

// Kernel is one WGSL entry point with its bound arguments. Pipelines are
// created per device on first launch.
type Kernel struct {
	prog      *Program
	name      string
	params    []compute.ParamKind
	args      []any
	pipelines map[*device]*pipeline
	released  bool
}

type pipeline struct {
	bgl    *wgpu.BindGroupLayout
	layout *wgpu.PipelineLayout
	pipe   *wgpu.ComputePipeline
}

func (p *pipeline) release() {
	p.pipe.Release()
	p.layout.Release()
	p.bgl.Release()
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
		b, ok := value.(*Buffer)
		if !ok || b.released {
			return compute.Errorf(compute.StatusInvalidMemObject, op, "argument %d: %T is not a live WebGPU buffer", index, value)
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
	if k.released {
		return
	}
	k.released = true
	for d, p := range k.pipelines {
		p.release()
		delete(k.pipelines, d)
	}
	k.args = nil
}

// layoutEntries binds global buffers from binding 0 in argument order and
// the scalars, if any, as one uniform after them.
func (k *Kernel) layoutEntries() []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry
	scalars := false
	for _, kind := range k.params {
		switch kind {
		case compute.ParamGlobalBuffer:
			entries = append(entries, wgpu.BindGroupLayoutEntry{
				Binding:    uint32(len(entries)),
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
			})
		case compute.ParamUint32, compute.ParamInt32:
			scalars = true
		}
	}
	if scalars {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(len(entries)),
			Visibility: wgpu.ShaderStageCompute,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		})
	}
	return entries
}

func (k *Kernel) pipelineFor(d *device) (*pipeline, error) {
	if p, ok := k.pipelines[d]; ok {
		return p, nil
	}
	module := k.prog.modules[d]
	if module == nil {
		return nil, ErrNotBuilt
	}
	label := "maxbench_" + k.name
	bgl, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + "_bgl",
		Entries: k.layoutEntries(),
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	layout, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bgl.Release()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	pipe, err := d.dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  label + "_pipe",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: k.name,
		},
	})
	if err != nil {
		layout.Release()
		bgl.Release()
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}
	p := &pipeline{bgl: bgl, layout: layout, pipe: pipe}
	k.pipelines[d] = p
	return p, nil
}

// uniformWords packs the scalar arguments in order, padded to the 16-byte
// alignment of a WGSL uniform struct.
func uniformWords(args []any) []uint32 {
	var words []uint32
	for _, a := range args {
		switch v := a.(type) {
		case uint32:
			words = append(words, v)
		case int32:
			words = append(words, uint32(v))
		}
	}
	for len(words)%4 != 0 {
		words = append(words, 0)
	}
	return words
}

func localBytes(args []any) int {
	total := 0
	for _, a := range args {
		if n, ok := a.(compute.LocalMem); ok {
			total += int(n)
		}
	}
	return total
}

package gpu

import (
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
)

// Queue submits to the device queue and waits for each submission, so every
// command has completed when its enqueue call returns.
type Queue struct {
	d         *device
	profiling bool
	epoch     time.Time
	released  bool
}

func newQueue(d *device, profiling bool) *Queue {
	return &Queue{d: d, profiling: profiling, epoch: time.Now()}
}

func (q *Queue) now() uint64 { return uint64(time.Since(q.epoch).Nanoseconds()) }

func (q *Queue) EnqueueNDRange(k compute.Kernel, global, local []int) (compute.Event, error) {
	const op = "clEnqueueNDRangeKernel"
	if q.released {
		return nil, compute.Errorf(compute.StatusInvalidCommandQueue, op, "queue released")
	}
	gk, ok := k.(*Kernel)
	if !ok || gk.released {
		return nil, compute.Errorf(compute.StatusInvalidKernel, op, "not a live WebGPU kernel")
	}
	if len(global) < 1 || len(global) > 3 || len(local) != len(global) {
		return nil, compute.Errorf(compute.StatusInvalidWorkDimension, op, "global %v local %v", global, local)
	}
	for i, a := range gk.args {
		if a == nil {
			return nil, compute.Errorf(compute.StatusInvalidKernelArgs, op, "argument %d of '%s' not set", i, gk.name)
		}
	}

	info := q.d.info
	groups := [3]uint32{1, 1, 1}
	groupSize := 1
	for d := range global {
		if global[d] < 1 {
			return nil, compute.Errorf(compute.StatusInvalidGlobalWorkSize, op, "global[%d] = %d", d, global[d])
		}
		if local[d] < 1 || global[d]%local[d] != 0 {
			return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "local[%d] = %d does not divide global %d", d, local[d], global[d])
		}
		if local[d] > info.MaxWorkItemSizes[d] {
			return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "local[%d] = %d exceeds max work-item size %d", d, local[d], info.MaxWorkItemSizes[d])
		}
		n := global[d] / local[d]
		if uint64(n) > uint64(q.d.limits.MaxComputeWorkgroupsPerDimension) {
			return nil, compute.Errorf(compute.StatusInvalidGlobalWorkSize, op, "%d workgroups in dimension %d exceed device limit %d", n, d, q.d.limits.MaxComputeWorkgroupsPerDimension)
		}
		groups[d] = uint32(n)
		groupSize *= local[d]
	}
	if groupSize > info.MaxWorkGroupSize {
		return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "work-group of %d exceeds device maximum %d", groupSize, info.MaxWorkGroupSize)
	}
	if lb := localBytes(gk.args); uint64(lb) > info.LocalMemSize {
		return nil, compute.Errorf(compute.StatusOutOfResources, op, "%d bytes of local memory exceed device limit %d", lb, info.LocalMemSize)
	}

	p, err := gk.pipelineFor(q.d)
	if err != nil {
		return nil, &compute.Error{Status: compute.StatusInvalidProgramExecutable, Op: op, Err: err}
	}
	ev, err := q.dispatch(gk, p, groups)
	if err != nil {
		return nil, &compute.Error{Status: compute.StatusOutOfResources, Op: op, Err: err}
	}
	return ev, nil
}

func (q *Queue) dispatch(k *Kernel, p *pipeline, groups [3]uint32) (*Event, error) {
	dev := q.d.dev
	var entries []wgpu.BindGroupEntry
	for _, a := range k.args {
		if b, ok := a.(*Buffer); ok {
			entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(len(entries)), Buffer: b.buf, Size: b.buf.GetSize()})
		}
	}
	if words := uniformWords(k.args); len(words) > 0 {
		params, err := dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "maxbench_params",
			Contents: wgpu.ToBytes(words),
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		defer params.Release()
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(len(entries)), Buffer: params, Size: params.GetSize()})
	}

	bg, err := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "maxbench_" + k.name + "_bind",
		Layout:  p.bgl,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	defer bg.Release()

	enc, err := dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "maxbench_dispatch"})
	if err != nil {
		return nil, err
	}
	pass := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "maxbench_" + k.name})
	pass.SetPipeline(p.pipe)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	pass.End()
	cmd, err := enc.Finish(nil)
	enc.Release()
	if err != nil {
		return nil, err
	}

	ev := &Event{profiling: q.profiling}
	ev.start = q.now()
	q.d.queue.Submit(cmd)
	dev.Poll(true, nil)
	ev.end = q.now()
	cmd.Release()
	return ev, nil
}

func (q *Queue) EnqueueReadBuffer(b compute.Buffer, _ bool, dst []int32) error {
	const op = "clEnqueueReadBuffer"
	if q.released {
		return compute.Errorf(compute.StatusInvalidCommandQueue, op, "queue released")
	}
	gb, ok := b.(*Buffer)
	if !ok || gb.released {
		return compute.Errorf(compute.StatusInvalidMemObject, op, "not a live WebGPU buffer")
	}
	if gb.dev != q.d {
		return compute.Errorf(compute.StatusInvalidContext, op, "buffer lives on another device")
	}
	if len(dst) < gb.Len() {
		return compute.Errorf(compute.StatusInvalidValue, op, "destination holds %d elements, buffer has %d", len(dst), gb.Len())
	}
	if err := gb.read(dst); err != nil {
		return &compute.Error{Status: compute.StatusOutOfResources, Op: op, Err: err}
	}
	return nil
}

func (q *Queue) Finish() error {
	if q.released {
		return compute.Errorf(compute.StatusInvalidCommandQueue, "clFinish", "queue released")
	}
	q.d.dev.Poll(true, nil)
	return nil
}

func (q *Queue) Release() { q.released = true }

// Event is a completed submission. Its timestamps bracket the submit and the
// wait for the device to go idle.
type Event struct {
	profiling  bool
	start, end uint64
}

func (e *Event) Wait() error { return nil }

func (e *Event) Profile() (uint64, uint64, error) {
	if !e.profiling {
		return 0, 0, compute.Errorf(compute.StatusProfilingInfoNotAvailable, "clGetEventProfilingInfo", "queue created without profiling")
	}
	return e.start, e.end, nil
}

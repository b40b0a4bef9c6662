package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/maxbench/compute"
)

// addOne adds one to every element a work-item covers and records the group
// size seen through scratch.
type addOne struct{}

func (addOne) Params() []compute.ParamKind {
	return []compute.ParamKind{compute.ParamGlobalBuffer, compute.ParamInt32, compute.ParamLocalBuffer}
}

func (addOne) RunGroup(g Group, args []any) {
	m := args[0].(*Memory)
	delta := args[1].(int32)
	scratch := args[2].([]int32)
	base := g.ID[0] * g.Size[0]
	for lid := 0; lid < g.Size[0]; lid++ {
		scratch[lid] = m.Load(base+lid) + delta
	}
	for lid := 0; lid < g.Size[0]; lid++ {
		m.Store(base+lid, scratch[lid])
	}
}

type panics struct{}

func (panics) Params() []compute.ParamKind { return []compute.ParamKind{compute.ParamGlobalBuffer} }
func (panics) RunGroup(Group, []any)       { panic("boom") }

const addOneSrc = `
// adds delta
__kernel void addOne(__global int* v, const int delta, __local int* tmp) {
  v[get_global_id(0)] += delta;
}
__kernel void panics(__global int* v) { }
`

func init() {
	RegisterKernel("addOne", addOne{})
	RegisterKernel("panics", panics{})
}

type fixture struct {
	ctx   compute.Context
	dev   compute.Device
	queue compute.Queue
	prog  compute.Program
}

func setup(t *testing.T, class compute.DeviceType, src string) *fixture {
	t.Helper()
	ctx, err := New().CreateContext(class)
	require.NoError(t, err)
	devs := ctx.Devices()
	require.Len(t, devs, 1)
	q, err := ctx.CreateQueue(devs[0], compute.QueueProfilingEnable)
	require.NoError(t, err)
	prog, err := ctx.CreateProgram(src)
	require.NoError(t, err)
	t.Cleanup(func() {
		prog.Release()
		q.Release()
		ctx.Release()
	})
	return &fixture{ctx: ctx, dev: devs[0], queue: q, prog: prog}
}

func TestBackendRegistered(t *testing.T) {
	assert.Contains(t, compute.Names(), Name)
	b, err := compute.Open(Name)
	require.NoError(t, err)
	assert.Equal(t, Name, b.Name())

	_, err = compute.Open("opencl")
	assert.ErrorIs(t, err, compute.ErrNoBackend)
}

func TestCreateContextByClass(t *testing.T) {
	b := New()
	cpu, err := b.CreateContext(compute.DeviceTypeCPU)
	require.NoError(t, err)
	assert.Equal(t, compute.DeviceTypeCPU, cpu.Devices()[0].Info().Type)

	gpu, err := b.CreateContext(compute.DeviceTypeGPU)
	require.NoError(t, err)
	assert.Equal(t, "host-gpu-sim", gpu.Devices()[0].Info().Name)

	only := New(WithDevice(CPUDeviceInfo(), 1))
	_, err = only.CreateContext(compute.DeviceTypeGPU)
	assert.Equal(t, compute.StatusDeviceNotFound, compute.StatusOf(err))
}

func TestBuildAndLaunch(t *testing.T) {
	for _, class := range []compute.DeviceType{compute.DeviceTypeCPU, compute.DeviceTypeGPU} {
		f := setup(t, class, addOneSrc)
		require.NoError(t, f.prog.Build(f.ctx.Devices()))
		assert.Empty(t, f.prog.BuildLog(f.dev))

		k, err := f.prog.CreateKernel("addOne")
		require.NoError(t, err)
		assert.Equal(t, 3, k.NumArgs())

		host := make([]int32, 96)
		for i := range host {
			host[i] = int32(i)
		}
		buf, err := f.ctx.CreateBuffer(compute.MemReadWrite|compute.MemCopyHostPtr, host)
		require.NoError(t, err)
		defer buf.Release()

		require.NoError(t, k.SetArg(0, buf))
		require.NoError(t, k.SetArg(1, int32(10)))
		require.NoError(t, k.SetArg(2, compute.LocalMem(4*32)))

		ev, err := f.queue.EnqueueNDRange(k, []int{96}, []int{32})
		require.NoError(t, err)
		require.NoError(t, f.queue.Finish())
		require.NoError(t, ev.Wait())

		start, end, err := ev.Profile()
		require.NoError(t, err)
		assert.LessOrEqual(t, start, end)

		out := make([]int32, 96)
		require.NoError(t, f.queue.EnqueueReadBuffer(buf, true, out))
		for i, v := range out {
			assert.Equal(t, int32(i+10), v)
		}
	}
}

func TestBuildFailureLog(t *testing.T) {
	f := setup(t, compute.DeviceTypeCPU, "__kernel void unknown(__global float* x) {\n}\n}")
	err := f.prog.Build(f.ctx.Devices())
	require.Error(t, err)
	assert.Equal(t, compute.StatusBuildProgramFailure, compute.StatusOf(err))

	log := f.prog.BuildLog(f.dev)
	assert.Contains(t, log, "<source>:3: error: unexpected '}'")
	assert.Contains(t, log, "unsupported buffer element type 'float'")
	assert.True(t, strings.HasSuffix(log, "error(s) generated."))

	_, err = f.prog.CreateKernel("unknown")
	assert.Equal(t, compute.StatusInvalidProgramExecutable, compute.StatusOf(err))
}

func TestParseSource(t *testing.T) {
	decls, diags := parseSource(`
/* block
   comment */
kernel void a(global int *p, uint n) {}
__kernel void a(void) {}
`)
	require.Len(t, decls, 1)
	assert.Equal(t, "a", decls[0].Name)
	assert.Equal(t, 4, decls[0].Line)
	assert.Equal(t, []compute.ParamKind{compute.ParamGlobalBuffer, compute.ParamUint32}, decls[0].Params)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Msg, "redefinition of kernel 'a'")

	_, diags = parseSource("int helper(int x) { return x; }")
	require.Len(t, diags, 1)
	assert.Equal(t, "no kernel functions found", diags[0].Msg)
}

func TestClassifyParam(t *testing.T) {
	ok := map[string]compute.ParamKind{
		"__global int* v":        compute.ParamGlobalBuffer,
		"global int *restrict v": compute.ParamGlobalBuffer,
		"__local int* s":         compute.ParamLocalBuffer,
		"const uint n":           compute.ParamUint32,
		"unsigned int n":         compute.ParamUint32,
		"int k":                  compute.ParamInt32,
	}
	for p, want := range ok {
		got, err := classifyParam(p)
		require.NoError(t, err, p)
		assert.Equal(t, want, got, p)
	}
	for _, p := range []string{"int* v", "__constant int* c", "float f", "__global float* f", "my_t x"} {
		_, err := classifyParam(p)
		assert.Error(t, err, p)
	}
}

func TestSetArgErrors(t *testing.T) {
	f := setup(t, compute.DeviceTypeCPU, addOneSrc)
	require.NoError(t, f.prog.Build(f.ctx.Devices()))
	k, err := f.prog.CreateKernel("addOne")
	require.NoError(t, err)
	buf, err := f.ctx.CreateBuffer(compute.MemReadWrite, make([]int32, 4))
	require.NoError(t, err)

	cases := []struct {
		index  int
		value  any
		status compute.Status
	}{
		{3, int32(1), compute.StatusInvalidArgIndex},
		{0, []int32{1}, compute.StatusInvalidMemObject},
		{1, uint32(1), compute.StatusInvalidArgValue},
		{2, 12, compute.StatusInvalidArgValue},
		{2, compute.LocalMem(6), compute.StatusInvalidArgSize},
		{2, compute.LocalMem(0), compute.StatusInvalidArgSize},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, compute.StatusOf(k.SetArg(c.index, c.value)), "arg %d %T", c.index, c.value)
	}

	_, err = f.prog.CreateKernel("missing")
	assert.Equal(t, compute.StatusInvalidKernelName, compute.StatusOf(err))

	buf.Release()
	assert.Equal(t, compute.StatusInvalidMemObject, compute.StatusOf(k.SetArg(0, buf)))
}

func TestEnqueueValidation(t *testing.T) {
	f := setup(t, compute.DeviceTypeGPU, addOneSrc)
	require.NoError(t, f.prog.Build(f.ctx.Devices()))
	k, err := f.prog.CreateKernel("addOne")
	require.NoError(t, err)
	buf, err := f.ctx.CreateBuffer(compute.MemReadWrite, make([]int32, 512))
	require.NoError(t, err)

	_, err = f.queue.EnqueueNDRange(k, []int{512}, []int{256})
	assert.Equal(t, compute.StatusInvalidKernelArgs, compute.StatusOf(err))

	require.NoError(t, k.SetArg(0, buf))
	require.NoError(t, k.SetArg(1, int32(1)))
	require.NoError(t, k.SetArg(2, compute.LocalMem(4*512)))

	cases := []struct {
		global, local []int
		status        compute.Status
	}{
		{[]int{}, []int{}, compute.StatusInvalidWorkDimension},
		{[]int{1, 1, 1, 1}, []int{1, 1, 1, 1}, compute.StatusInvalidWorkDimension},
		{[]int{0}, []int{1}, compute.StatusInvalidGlobalWorkSize},
		{[]int{512}, []int{100}, compute.StatusInvalidWorkGroupSize},
		{[]int{512}, []int{512}, compute.StatusInvalidWorkGroupSize},
		{[]int{64, 64}, []int{32, 16}, compute.StatusInvalidWorkGroupSize},
	}
	for _, c := range cases {
		_, err := f.queue.EnqueueNDRange(k, c.global, c.local)
		assert.Equal(t, c.status, compute.StatusOf(err), "global %v local %v", c.global, c.local)
	}

	require.NoError(t, k.SetArg(2, compute.LocalMem(128*1024)))
	_, err = f.queue.EnqueueNDRange(k, []int{512}, []int{256})
	assert.Equal(t, compute.StatusOutOfResources, compute.StatusOf(err))
}

func TestKernelFaultSurfacesOnFinish(t *testing.T) {
	f := setup(t, compute.DeviceTypeCPU, addOneSrc)
	require.NoError(t, f.prog.Build(f.ctx.Devices()))
	k, err := f.prog.CreateKernel("panics")
	require.NoError(t, err)
	buf, err := f.ctx.CreateBuffer(compute.MemReadWrite, make([]int32, 8))
	require.NoError(t, err)
	require.NoError(t, k.SetArg(0, buf))

	ev, err := f.queue.EnqueueNDRange(k, []int{8}, []int{4})
	require.NoError(t, err)
	err = f.queue.Finish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Error(t, ev.Wait())
	assert.NoError(t, f.queue.Finish())
}

func TestProfilingRequiresFlag(t *testing.T) {
	f := setup(t, compute.DeviceTypeCPU, addOneSrc)
	q, err := f.ctx.CreateQueue(f.dev, 0)
	require.NoError(t, err)
	defer q.Release()
	require.NoError(t, f.prog.Build(f.ctx.Devices()))
	k, err := f.prog.CreateKernel("panics")
	require.NoError(t, err)
	// The fault is irrelevant here; only the event's profiling state is.
	buf, err := f.ctx.CreateBuffer(compute.MemReadWrite, make([]int32, 1))
	require.NoError(t, err)
	require.NoError(t, k.SetArg(0, buf))
	ev, err := q.EnqueueNDRange(k, []int{1}, []int{1})
	require.NoError(t, err)
	_ = q.Finish()
	_, _, err = ev.Profile()
	assert.Equal(t, compute.StatusProfilingInfoNotAvailable, compute.StatusOf(err))

	_, err = f.ctx.CreateQueue(f.dev, compute.QueueProperties(1<<7))
	assert.Equal(t, compute.StatusInvalidQueueProperties, compute.StatusOf(err))
}

func TestReleasedQueueRejectsWork(t *testing.T) {
	f := setup(t, compute.DeviceTypeCPU, addOneSrc)
	q, err := f.ctx.CreateQueue(f.dev, compute.QueueProfilingEnable)
	require.NoError(t, err)
	q.Release()
	q.Release()
	assert.Equal(t, compute.StatusInvalidCommandQueue, compute.StatusOf(q.Finish()))
}

func TestCreateBufferLimits(t *testing.T) {
	info := CPUDeviceInfo()
	info.GlobalMemSize = 16
	ctx, err := New(WithDevice(info, 1)).CreateContext(compute.DeviceTypeCPU)
	require.NoError(t, err)

	_, err = ctx.CreateBuffer(compute.MemReadWrite, nil)
	assert.Equal(t, compute.StatusInvalidBufferSize, compute.StatusOf(err))
	_, err = ctx.CreateBuffer(compute.MemReadWrite, make([]int32, 5))
	assert.Equal(t, compute.StatusInvalidBufferSize, compute.StatusOf(err))

	b, err := ctx.CreateBuffer(compute.MemReadWrite, []int32{7, 8})
	require.NoError(t, err)
	assert.Equal(t, int32(0), b.(*Memory).Load(0), "no copy without MemCopyHostPtr")
}

func TestMemoryAtomicMax(t *testing.T) {
	m := &Memory{data: []int32{5}}
	assert.Equal(t, int32(5), m.AtomicMax(0, 3))
	assert.Equal(t, int32(5), m.Load(0))
	assert.Equal(t, int32(5), m.AtomicMax(0, 9))
	assert.Equal(t, int32(9), m.Load(0))
}

func TestLinearToND(t *testing.T) {
	assert.Equal(t, []int{1, 2}, linearToND(7, []int{3, 4}))
	g := Group{ID: []int{1, 2}, NumGroups: []int{3, 4}}
	assert.Equal(t, 7, g.Linear())
}

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/kernels"
)

func TestBackendRegistered(t *testing.T) {
	assert.Contains(t, compute.Names(), Name)
}

func TestClassOf(t *testing.T) {
	c, ok := classOf("cpu")
	assert.True(t, ok)
	assert.Equal(t, compute.DeviceTypeCPU, c)

	for _, at := range []string{"discrete-gpu", "integrated-gpu"} {
		c, ok := classOf(at)
		assert.True(t, ok, at)
		assert.Equal(t, compute.DeviceTypeGPU, c, at)
	}
	_, ok = classOf("unknown")
	assert.False(t, ok)
}

func TestEntryPoints(t *testing.T) {
	src, err := kernels.Default(Name).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{kernels.EntryPoint: true}, entryPoints(src))

	assert.Empty(t, entryPoints("fn helper(x: i32) -> i32 { return x; }"))
	assert.Equal(t, map[string]bool{"a": true, "b": true},
		entryPoints("@compute @workgroup_size(64)\nfn a() {}\n@workgroup_size(1) @compute fn b(@builtin(global_invocation_id) id: vec3<u32>) {}"))
}

func TestUniformWords(t *testing.T) {
	args := []any{&Buffer{}, uint32(1000), uint32(8), compute.LocalMem(32)}
	assert.Equal(t, []uint32{1000, 8, 0, 0}, uniformWords(args))
	assert.Equal(t, []uint32{0xffffffff, 0, 0, 0}, uniformWords([]any{int32(-1)}))
	assert.Empty(t, uniformWords([]any{&Buffer{}}))
	assert.Equal(t, 32, localBytes(args))
}

func TestLayoutEntries(t *testing.T) {
	k := &Kernel{params: kernels.MaxInt{}.Params()}
	entries := k.layoutEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entries[0].Buffer.Type)
	assert.Equal(t, uint32(1), entries[1].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[1].Buffer.Type)
}

func TestSetArgValidation(t *testing.T) {
	k := &Kernel{name: kernels.EntryPoint, params: kernels.MaxInt{}.Params(), args: make([]any, 4)}
	assert.Equal(t, compute.StatusInvalidArgIndex, compute.StatusOf(k.SetArg(4, uint32(1))))
	assert.Equal(t, compute.StatusInvalidMemObject, compute.StatusOf(k.SetArg(0, []int32{1})))
	assert.Equal(t, compute.StatusInvalidArgValue, compute.StatusOf(k.SetArg(1, int32(1))))
	assert.Equal(t, compute.StatusInvalidArgSize, compute.StatusOf(k.SetArg(3, compute.LocalMem(3))))
	require.NoError(t, k.SetArg(1, uint32(10)))
	require.NoError(t, k.SetArg(3, compute.LocalMem(64)))
}

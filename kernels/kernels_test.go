package kernels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/compute/host"
)

func TestDefaultSources(t *testing.T) {
	cl, err := Default("host").Load()
	require.NoError(t, err)
	assert.Contains(t, cl, "__kernel void maxInt(")

	wgsl, err := Default("wgpu").Load()
	require.NoError(t, err)
	assert.Contains(t, wgsl, "fn maxInt(")

	assert.Equal(t, Default("host"), Default("cuda"))
	assert.Equal(t, "embedded:maxint.wgsl", Default("wgpu").Origin())
}

func TestResolve(t *testing.T) {
	assert.Equal(t, File("/tmp/k.cl"), Resolve("/tmp/k.cl", "wgpu"))
	assert.Equal(t, Embedded("maxint.cl"), Resolve("", "host"))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.cl")
	require.NoError(t, os.WriteFile(path, []byte("__kernel void maxInt() {}"), 0o644))
	src, err := File(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "__kernel void maxInt() {}", src)

	_, err = File(filepath.Join(t.TempDir(), "none.cl")).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Embedded("nope.cl").Load()
	assert.Error(t, err)
}

func TestMaxIntGroup(t *testing.T) {
	b := host.New(host.WithDevice(host.CPUDeviceInfo(), 1))
	ctx, err := b.CreateContext(compute.DeviceTypeCPU)
	require.NoError(t, err)
	defer ctx.Release()

	values := []int32{3, 1, 4, 1, 5, 9, 2}
	buf, err := ctx.CreateBuffer(compute.MemReadWrite|compute.MemCopyHostPtr, values)
	require.NoError(t, err)
	mem := buf.(*host.Memory)

	// Second group of size 4 covers indices 4..7; index 7 is past count.
	scratch := make([]int32, 4)
	MaxInt{}.RunGroup(host.Group{ID: []int{1}, Size: []int{4}, NumGroups: []int{2}},
		[]any{mem, uint32(len(values)), uint32(4), scratch})
	assert.Equal(t, int32(9), mem.Load(0))
	assert.Equal(t, int32(1), mem.Load(1))
}

func TestMaxIntOddGroupSizes(t *testing.T) {
	for size := 1; size <= 17; size++ {
		values := make([]int32, size)
		for i := range values {
			values[i] = int32(-100 - i)
		}
		want := int32(-100)
		if size > 1 {
			values[size-1] = 50
			want = 50
		}
		b := host.New()
		ctx, err := b.CreateContext(compute.DeviceTypeGPU)
		require.NoError(t, err)
		buf, err := ctx.CreateBuffer(compute.MemReadWrite|compute.MemCopyHostPtr, values)
		require.NoError(t, err)
		mem := buf.(*host.Memory)
		MaxInt{}.RunGroup(host.Group{ID: []int{0}, Size: []int{size}, NumGroups: []int{1}},
			[]any{mem, uint32(size), uint32(size), make([]int32, size)})
		assert.Equal(t, want, mem.Load(0), "size %d", size)
	}
}

func TestMaxIntParamsMatchSource(t *testing.T) {
	assert.Equal(t, []compute.ParamKind{
		compute.ParamGlobalBuffer, compute.ParamUint32, compute.ParamUint32, compute.ParamLocalBuffer,
	}, MaxInt{}.Params())
}

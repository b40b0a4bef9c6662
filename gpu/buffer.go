package gpu

import (
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"
)

const mapTimeout = 10 * time.Second

// Buffer is a storage buffer of int32 elements on one device.
type Buffer struct {
	buf      *wgpu.Buffer
	dev      *device
	n        int
	released bool
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.buf.Release()
}

// read copies the buffer through a mappable staging buffer into dst.
func (b *Buffer) read(dst []int32) error {
	d := b.dev
	size := uint64(b.n) * 4
	staging, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "maxbench_read_staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer staging.Release()

	enc, err := d.dev.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	enc.CopyBufferToBuffer(b.buf, 0, staging, 0, size)
	cmd, err := enc.Finish(nil)
	enc.Release()
	if err != nil {
		return fmt.Errorf("finish command buffer: %w", err)
	}
	d.queue.Submit(cmd)
	cmd.Release()

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}

	timeout := time.After(mapTimeout)
wait:
	for {
		d.dev.Poll(false, nil)
		select {
		case <-done:
			break wait
		case <-timeout:
			return fmt.Errorf("read back timed out after %v", mapTimeout)
		default:
			time.Sleep(100 * time.Microsecond)
		}
	}
	if mapErr != nil {
		return mapErr
	}

	data := staging.GetMappedRange(0, uint(size))
	if data == nil {
		return fmt.Errorf("failed to get mapped range")
	}
	copy(dst, wgpu.FromBytes[int32](data))
	staging.Unmap()
	return nil
}

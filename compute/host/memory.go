package host

import (
	"sync/atomic"
)

const defaultSystemMemory = 16 << 30

// Memory is a global buffer of int32 elements. Kernels reach it through the
// atomic accessors while other work-groups may be running.
type Memory struct {
	data     []int32
	released atomic.Bool
}

func (m *Memory) Len() int { return len(m.data) }

// Release drops the backing storage. Releasing twice is harmless.
func (m *Memory) Release() {
	if m.released.Swap(true) {
		return
	}
	m.data = nil
}

// Load reads element i.
func (m *Memory) Load(i int) int32 { return atomic.LoadInt32(&m.data[i]) }

// Store writes element i.
func (m *Memory) Store(i int, v int32) { atomic.StoreInt32(&m.data[i], v) }

// AtomicMax raises element i to v if v is larger and returns the previous
// value.
func (m *Memory) AtomicMax(i int, v int32) int32 {
	p := &m.data[i]
	for {
		old := atomic.LoadInt32(p)
		if old >= v || atomic.CompareAndSwapInt32(p, old, v) {
			return old
		}
	}
}

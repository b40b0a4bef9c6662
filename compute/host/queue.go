package host

import (
	"fmt"
	"sync"
	"time"

	"github.com/openfluke/maxbench/compute"
)

// Queue is an in-order command stream served by one goroutine.
type Queue struct {
	dev       *device
	profiling bool
	epoch     time.Time

	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup

	sendMu   sync.Mutex // guards tasks and released
	released bool

	faultMu sync.Mutex
	fault   error
}

func newQueue(d *device, profiling bool) *Queue {
	q := &Queue{
		dev:       d,
		profiling: profiling,
		epoch:     time.Now(),
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
	go q.worker()
	return q
}

func (q *Queue) worker() {
	for task := range q.tasks {
		task()
		q.wg.Done()
	}
	close(q.done)
}

func (q *Queue) submit(task func()) error {
	q.sendMu.Lock()
	defer q.sendMu.Unlock()
	if q.released {
		return compute.Errorf(compute.StatusInvalidCommandQueue, "enqueue", "queue released")
	}
	q.wg.Add(1)
	q.tasks <- task
	return nil
}

func (q *Queue) now() uint64 { return uint64(time.Since(q.epoch).Nanoseconds()) }

func (q *Queue) setFault(err error) {
	q.faultMu.Lock()
	defer q.faultMu.Unlock()
	if q.fault == nil {
		q.fault = err
	}
}

// EnqueueNDRange validates the launch against the device limits, snapshots
// the kernel arguments and queues the launch.
func (q *Queue) EnqueueNDRange(k compute.Kernel, global, local []int) (compute.Event, error) {
	const op = "clEnqueueNDRangeKernel"
	hk, ok := k.(*Kernel)
	if !ok || hk.released {
		return nil, compute.Errorf(compute.StatusInvalidKernel, op, "not a live host kernel")
	}
	if len(global) < 1 || len(global) > 3 || len(local) != len(global) {
		return nil, compute.Errorf(compute.StatusInvalidWorkDimension, op, "global %v local %v", global, local)
	}
	for i, a := range hk.args {
		if a == nil {
			return nil, compute.Errorf(compute.StatusInvalidKernelArgs, op, "argument %d of '%s' not set", i, hk.name)
		}
	}
	info := q.dev.info
	groupSize := 1
	for d := range global {
		if global[d] < 1 {
			return nil, compute.Errorf(compute.StatusInvalidGlobalWorkSize, op, "global[%d] = %d", d, global[d])
		}
		if local[d] < 1 || global[d]%local[d] != 0 {
			return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "local[%d] = %d does not divide global %d", d, local[d], global[d])
		}
		if d < len(info.MaxWorkItemSizes) && local[d] > info.MaxWorkItemSizes[d] {
			return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "local[%d] = %d exceeds max work-item size %d", d, local[d], info.MaxWorkItemSizes[d])
		}
		groupSize *= local[d]
	}
	if groupSize > info.MaxWorkGroupSize {
		return nil, compute.Errorf(compute.StatusInvalidWorkGroupSize, op, "work-group of %d exceeds device maximum %d", groupSize, info.MaxWorkGroupSize)
	}
	if lb := hk.localBytes(); uint64(lb) > info.LocalMemSize {
		return nil, compute.Errorf(compute.StatusOutOfResources, op, "%d bytes of local memory exceed device limit %d", lb, info.LocalMemSize)
	}

	args := append([]any(nil), hk.args...)
	g := append([]int(nil), global...)
	l := append([]int(nil), local...)
	ev := newEvent(q.profiling)
	err := q.submit(func() {
		ev.start = q.now()
		if err := q.launch(hk.native, args, g, l); err != nil {
			ev.err = compute.Errorf(compute.StatusOutOfResources, op, "kernel '%s' faulted: %v", hk.name, err)
			q.setFault(ev.err)
		}
		ev.end = q.now()
		close(ev.done)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (q *Queue) EnqueueReadBuffer(b compute.Buffer, blocking bool, dst []int32) error {
	const op = "clEnqueueReadBuffer"
	m, ok := b.(*Memory)
	if !ok || m.released.Load() {
		return compute.Errorf(compute.StatusInvalidMemObject, op, "not a live host buffer")
	}
	if len(dst) < m.Len() {
		return compute.Errorf(compute.StatusInvalidValue, op, "destination holds %d elements, buffer has %d", len(dst), m.Len())
	}
	ev := newEvent(false)
	err := q.submit(func() {
		for i := range m.data {
			dst[i] = m.Load(i)
		}
		close(ev.done)
	})
	if err != nil {
		return err
	}
	if blocking {
		return ev.Wait()
	}
	return nil
}

// Finish waits for the stream to drain and reports the first kernel fault
// seen since the previous Finish.
func (q *Queue) Finish() error {
	q.sendMu.Lock()
	released := q.released
	q.sendMu.Unlock()
	if released {
		return compute.Errorf(compute.StatusInvalidCommandQueue, "clFinish", "queue released")
	}
	q.wg.Wait()

	q.faultMu.Lock()
	defer q.faultMu.Unlock()
	err := q.fault
	q.fault = nil
	return err
}

// Release drains outstanding work and stops the worker.
func (q *Queue) Release() {
	q.sendMu.Lock()
	if q.released {
		q.sendMu.Unlock()
		return
	}
	q.released = true
	close(q.tasks)
	q.sendMu.Unlock()
	<-q.done
}

// Event completes when its command has run.
type Event struct {
	profiling  bool
	start, end uint64
	err        error
	done       chan struct{}
}

func newEvent(profiling bool) *Event {
	return &Event{profiling: profiling, done: make(chan struct{})}
}

func (e *Event) Wait() error {
	<-e.done
	return e.err
}

func (e *Event) Profile() (uint64, uint64, error) {
	const op = "clGetEventProfilingInfo"
	if !e.profiling {
		return 0, 0, compute.Errorf(compute.StatusProfilingInfoNotAvailable, op, "queue created without profiling")
	}
	select {
	case <-e.done:
	default:
		return 0, 0, compute.Errorf(compute.StatusProfilingInfoNotAvailable, op, "command not complete")
	}
	return e.start, e.end, nil
}

func (e *Event) String() string {
	return fmt.Sprintf("event[start=%d end=%d]", e.start, e.end)
}

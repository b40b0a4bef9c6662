package reduce

import (
	"math"
	"time"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/timeutil"
)

const reduceMethod = "maxValueCL"

// ParallelReducer runs the maxInt kernel over a dataset on an open session.
type ParallelReducer struct {
	s *Session
}

// NewParallelReducer binds a reducer to s. The session stays owned by the
// caller.
func NewParallelReducer(s *Session) *ParallelReducer {
	return &ParallelReducer{s: s}
}

// Reduce leaves the maximum of values in values[0] after a single kernel
// launch. The returned timing covers transfer, launch and read-back; the
// kernel duration comes from the queue's profiling counters.
func (r *ParallelReducer) Reduce(values []int32) (Timing, error) {
	if err := checkCount(len(values)); err != nil {
		return Timing{}, err
	}
	if r == nil || r.s == nil || r.s.kernel == nil {
		return Timing{}, newError(KindConfiguration, reduceMethod, ErrSessionClosed)
	}
	s := r.s
	log := s.log
	var clock timeutil.Clock
	clock.Start()
	fail := func(op string, err error) (Timing, error) {
		log.Errorf(reduceMethod, "%s: %v", op, err)
		return Timing{Host: clock.Elapsed()}, newError(KindRuntime, op, err)
	}

	buf, err := s.ctx.CreateBuffer(compute.MemReadWrite|compute.MemCopyHostPtr, values)
	if err != nil {
		return fail("cl::Buffer values", err)
	}
	defer buf.Release()
	if err := s.queue.Finish(); err != nil {
		return fail("CommandQueue.finish", err)
	}

	sizing := Sizing1D(len(values), s.device.Info().MaxWorkGroupSize)
	global, local := sizing.Global[xDim], sizing.Local[xDim]
	log.Debugf(reduceMethod, "globalSize[0]: %d", global)
	log.Debugf(reduceMethod, "localSize[0]: %d", local)

	args := []any{buf, uint32(len(values)), uint32(local), compute.LocalMem(4 * local)}
	for i, a := range args {
		if err := s.kernel.SetArg(i, a); err != nil {
			return fail("Kernel.SetArg", err)
		}
	}

	ev, err := s.queue.EnqueueNDRange(s.kernel, sizing.Global, sizing.Local)
	if err != nil {
		return fail("CommandQueue.enqueueNDRangeKernel", err)
	}
	if err := s.queue.Finish(); err != nil {
		return fail("CommandQueue.finish", err)
	}
	if err := s.queue.EnqueueReadBuffer(buf, true, values); err != nil {
		return fail("CommandQueue.enqueueReadBuffer", err)
	}
	clock.Stop()

	t := Timing{Host: clock.Elapsed()}
	start, end, err := ev.Profile()
	if err != nil {
		log.Warnf(reduceMethod, "kernel profiling unavailable: %v", err)
		return t, nil
	}
	t.Kernel = time.Duration(end - start)
	t.HasKernel = true
	log.Timef(reduceMethod, "timeKernel=%g;", t.Kernel.Seconds())
	return t, nil
}

// RunAccelerated opens a session for class, reduces values on it and
// releases the session.
func RunAccelerated(x *ExecContext, class compute.DeviceType, values []int32) (Timing, error) {
	if err := checkCount(len(values)); err != nil {
		return Timing{}, err
	}
	log := x.logger()
	s, err := OpenSession(x.Backend, class, x.Source, log)
	if err != nil {
		log.Errorf(reduceMethod, "%v", err)
		return Timing{}, err
	}
	defer s.Close()
	return NewParallelReducer(s).Reduce(values)
}

// checkCount rejects dataset lengths the kernel cannot address.
func checkCount(n int) error {
	switch {
	case n == 0:
		return newError(KindConfiguration, reduceMethod, ErrEmptyDataset)
	case uint64(n) > math.MaxUint32:
		return newError(KindConfiguration, reduceMethod, ErrDatasetTooLarge)
	}
	return nil
}

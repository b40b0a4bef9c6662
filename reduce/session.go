package reduce

import (
	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/detector"
	"github.com/openfluke/maxbench/kernels"
	"github.com/openfluke/maxbench/logging"
)

const initMethod = "initCL"

// Session is everything one accelerated run needs on a single device:
// context, first device, profiling queue, built program and the maxInt
// kernel. A session belongs to one run and one device class.
type Session struct {
	backend string
	ctx     compute.Context
	devices []compute.Device
	device  compute.Device
	queue   compute.Queue
	program compute.Program
	kernel  compute.Kernel
	log     *logging.Logger
}

// OpenSession resolves a device of class on b, builds the kernel source from
// src for it and extracts the maxInt entry point. On failure the partially
// built session is released before returning.
func OpenSession(b compute.Backend, class compute.DeviceType, src kernels.Source, log *logging.Logger) (*Session, error) {
	if b == nil {
		return nil, newError(KindConfiguration, "cl::Context", compute.ErrNoBackend)
	}
	if log == nil {
		log = logging.Nop()
	}
	s := &Session{backend: b.Name(), log: log}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	ctx, err := b.CreateContext(class)
	if err != nil {
		return nil, newError(KindConfiguration, "cl::Context", err)
	}
	s.ctx = ctx

	s.devices = ctx.Devices()
	if len(s.devices) == 0 {
		return nil, newError(KindConfiguration, "Context.getInfo", ErrNoDevice)
	}
	s.device = s.devices[0]

	q, err := ctx.CreateQueue(s.device, compute.QueueProfilingEnable)
	if err != nil {
		return nil, newError(KindRuntime, "cl::CommandQueue", err)
	}
	s.queue = q

	text, err := src.Load()
	if err != nil {
		return nil, newError(KindConfiguration, "readFile", err)
	}

	prog, err := ctx.CreateProgram(text)
	if err != nil {
		return nil, newError(KindConfiguration, "cl::Program", err)
	}
	s.program = prog

	if err := prog.Build(s.devices); err != nil {
		buildLog := prog.BuildLog(s.device)
		log.Debugf(initMethod, "%v\nbuild log for %q:\n%s", err, s.device.Info().Name, buildLog)
		re := newError(KindCompile, "Program.build", err)
		re.BuildLog = buildLog
		return nil, re
	}

	k, err := prog.CreateKernel(kernels.EntryPoint)
	if err != nil {
		return nil, newError(KindConfiguration, "cl::Kernel", err)
	}
	s.kernel = k

	s.LogDeviceInfo()
	ok = true
	return s, nil
}

// Device returns the device the session runs on.
func (s *Session) Device() compute.Device { return s.device }

// LogDeviceInfo writes the device capability lines at INFO.
func (s *Session) LogDeviceInfo() {
	detector.FromDevice(s.backend, s.device.Info()).Log(s.log, initMethod)
}

// Close releases the kernel, program, queue and context in that order. It
// tolerates sessions that were only partly opened and nil receivers.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.ctx != nil {
		s.ctx.Release()
		s.ctx = nil
	}
}

// Package host is a software compute backend. It exposes a CPU-class device
// and a simulated GPU-class device, both executing work-groups on goroutines
// of the host process. Kernels are native Go implementations registered by
// name; program source is checked against their signatures at build time.
package host

import (
	"runtime"

	"github.com/openfluke/maxbench/compute"
)

// Name is the registry name of this backend.
const Name = "host"

func init() {
	compute.Register(Name, func() (compute.Backend, error) {
		return New(), nil
	})
}

// Backend hands out contexts over its fixed device list.
type Backend struct {
	devices []*device
}

// Option customises a Backend.
type Option func(*Backend)

// WithDevice replaces the default device list on first use and appends
// afterwards. Workers bounds the goroutines used per launch.
func WithDevice(info compute.DeviceInfo, workers int) Option {
	return func(b *Backend) {
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		b.devices = append(b.devices, &device{info: info, workers: workers})
	}
}

// New returns a backend with the default CPU and simulated GPU devices, or
// with the devices given as options.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, o := range opts {
		o(b)
	}
	if len(b.devices) == 0 {
		b.devices = []*device{
			{info: CPUDeviceInfo(), workers: runtime.NumCPU()},
			{info: GPUDeviceInfo(), workers: runtime.NumCPU()},
		}
	}
	return b
}

func (b *Backend) Name() string { return Name }

// CreateContext collects every device of class t.
func (b *Backend) CreateContext(t compute.DeviceType) (compute.Context, error) {
	var devs []*device
	for _, d := range b.devices {
		if d.info.Type == t {
			devs = append(devs, d)
		}
	}
	if len(devs) == 0 {
		return nil, compute.Errorf(compute.StatusDeviceNotFound, "clCreateContextFromType", "no %s device on backend %s", t, Name)
	}
	return &Context{devices: devs}, nil
}

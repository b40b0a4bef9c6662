package gpu

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
)

// Name is the registry name of this backend.
const Name = "wgpu"

func init() {
	compute.Register(Name, func() (compute.Backend, error) {
		return New()
	})
}

// Backend owns the WebGPU instance shared by its contexts.
type Backend struct {
	inst *wgpu.Instance
	mu   sync.Mutex
}

// New creates the WebGPU instance.
func New() (*Backend, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, compute.Errorf(compute.StatusDeviceNotFound, "wgpuCreateInstance", "failed to create WebGPU instance")
	}
	return &Backend{inst: inst}, nil
}

func (b *Backend) Name() string { return Name }

// classOf maps a WebGPU adapter type to a device class.
func classOf(adapterType string) (compute.DeviceType, bool) {
	switch adapterType {
	case "cpu":
		return compute.DeviceTypeCPU, true
	case "discrete-gpu", "integrated-gpu":
		return compute.DeviceTypeGPU, true
	}
	return 0, false
}

// rank orders adapters of one class: discrete GPUs first, NVIDIA first
// among equals.
func rank(a *wgpu.Adapter) int {
	info := a.GetInfo()
	r := 0
	if info.AdapterType.String() == "discrete-gpu" {
		r += 2
	}
	if strings.Contains(strings.ToLower(info.Name+" "+info.VendorName), "nvidia") {
		r++
	}
	return r
}

// CreateContext opens a device on every adapter of class t.
func (b *Backend) CreateContext(t compute.DeviceType) (compute.Context, error) {
	const op = "clCreateContextFromType"
	b.mu.Lock()
	defer b.mu.Unlock()

	var picked []*wgpu.Adapter
	for _, a := range b.inst.EnumerateAdapters(nil) {
		class, ok := classOf(a.GetInfo().AdapterType.String())
		if !ok || class != t {
			a.Release()
			continue
		}
		picked = append(picked, a)
	}
	if len(picked) == 0 {
		return nil, compute.Errorf(compute.StatusDeviceNotFound, op, "no %s adapter on backend %s", t, Name)
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return rank(picked[i]) > rank(picked[j])
	})

	c := &Context{}
	for _, a := range picked {
		d, err := openDevice(a, t)
		if err != nil {
			a.Release()
			c.Release()
			return nil, &compute.Error{Status: compute.StatusDeviceNotFound, Op: op, Err: err}
		}
		c.devices = append(c.devices, d)
	}
	return c, nil
}

func openDevice(a *wgpu.Adapter, class compute.DeviceType) (*device, error) {
	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	if dev == nil {
		return nil, fmt.Errorf("request device: no device")
	}
	return &device{
		adapter: a,
		dev:     dev,
		queue:   dev.GetQueue(),
		info:    deviceInfo(a, class),
		limits:  a.GetLimits().Limits,
	}, nil
}

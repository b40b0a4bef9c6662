package gpu

import (
	"errors"
	"regexp"
	"sync"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/kernels"
)

var (
	sigMu sync.RWMutex
	// WGSL entry points carry no OpenCL-style parameter list; the argument
	// kinds of each kernel are registered here instead.
	signatures = map[string][]compute.ParamKind{
		kernels.EntryPoint: kernels.MaxInt{}.Params(),
	}
)

// RegisterSignature declares the argument kinds of a WGSL entry point.
func RegisterSignature(name string, params []compute.ParamKind) {
	sigMu.Lock()
	defer sigMu.Unlock()
	signatures[name] = append([]compute.ParamKind(nil), params...)
}

func signature(name string) ([]compute.ParamKind, bool) {
	sigMu.RLock()
	defer sigMu.RUnlock()
	p, ok := signatures[name]
	return p, ok
}

var computeEntry = regexp.MustCompile(`(?s)@compute[^{;]*?\bfn\s+([A-Za-z_]\w*)\s*\(`)

// entryPoints lists the @compute functions of a WGSL module.
func entryPoints(src string) map[string]bool {
	out := map[string]bool{}
	for _, m := range computeEntry.FindAllStringSubmatch(src, -1) {
		out[m[1]] = true
	}
	return out
}

// Program is WGSL source compiled into one shader module per device.
type Program struct {
	ctx     *Context
	source  string
	entries map[string]bool
	modules map[*device]*wgpu.ShaderModule
	logs    map[*device]string
	built   bool
}

func (p *Program) Build(devices []compute.Device) error {
	const op = "clBuildProgram"
	if len(devices) == 0 {
		return compute.Errorf(compute.StatusInvalidValue, op, "empty device list")
	}
	p.entries = entryPoints(p.source)
	failed := false
	for _, cd := range devices {
		d, ok := p.ctx.owns(cd)
		if !ok {
			return compute.Errorf(compute.StatusInvalidDevice, op, "device not in program context")
		}
		if m := p.modules[d]; m != nil {
			m.Release()
			delete(p.modules, d)
		}
		module, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          "maxbench_program",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: p.source},
		})
		if err != nil {
			p.logs[d] = err.Error()
			failed = true
			continue
		}
		if len(p.entries) == 0 {
			p.logs[d] = "error: no @compute entry points found"
			module.Release()
			failed = true
			continue
		}
		p.logs[d] = ""
		p.modules[d] = module
	}
	p.built = !failed
	if failed {
		return compute.Errorf(compute.StatusBuildProgramFailure, op, "build failed, see build log")
	}
	return nil
}

func (p *Program) BuildLog(d compute.Device) string {
	gd, ok := d.(*device)
	if !ok {
		return ""
	}
	return p.logs[gd]
}

func (p *Program) CreateKernel(name string) (compute.Kernel, error) {
	const op = "clCreateKernel"
	if !p.built {
		return nil, compute.Errorf(compute.StatusInvalidProgramExecutable, op, "program not built")
	}
	if !p.entries[name] {
		return nil, compute.Errorf(compute.StatusInvalidKernelName, op, "no @compute entry point named '%s'", name)
	}
	params, ok := signature(name)
	if !ok {
		return nil, compute.Errorf(compute.StatusInvalidKernelName, op, "entry point '%s' has no registered signature", name)
	}
	return &Kernel{
		prog:      p,
		name:      name,
		params:    params,
		args:      make([]any, len(params)),
		pipelines: map[*device]*pipeline{},
	}, nil
}

func (p *Program) Release() {
	for d, m := range p.modules {
		m.Release()
		delete(p.modules, d)
	}
	p.built = false
}

// ErrNotBuilt is returned when a kernel is launched on a device the program
// was not built for.
var ErrNotBuilt = errors.New("program not built for device")

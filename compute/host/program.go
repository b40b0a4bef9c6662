package host

import (
	"fmt"

	"github.com/openfluke/maxbench/compute"
)

// Program is OpenCL C source bound to native kernel bodies.
type Program struct {
	ctx    *Context
	source string
	decls  map[string]declaration
	logs   map[*device]string
	built  bool
}

// Build parses the source and resolves every declared kernel against the
// native registry. The per-device log records every problem found.
func (p *Program) Build(devices []compute.Device) error {
	const op = "clBuildProgram"
	if len(devices) == 0 {
		return compute.Errorf(compute.StatusInvalidValue, op, "empty device list")
	}
	decls, diags := parseSource(p.source)

	failed := false
	for _, cd := range devices {
		d, ok := p.ctx.owns(cd)
		if !ok {
			return compute.Errorf(compute.StatusInvalidDevice, op, "device not in program context")
		}
		devDiags := append([]diagnostic(nil), diags...)
		for _, decl := range decls {
			devDiags = append(devDiags, resolve(decl, d)...)
		}
		p.logs[d] = renderLog(devDiags)
		if len(devDiags) > 0 {
			failed = true
		}
	}
	if failed {
		p.built = false
		return compute.Errorf(compute.StatusBuildProgramFailure, op, "build failed, see build log")
	}

	p.decls = make(map[string]declaration, len(decls))
	for _, decl := range decls {
		p.decls[decl.Name] = decl
	}
	p.built = true
	return nil
}

func resolve(decl declaration, d *device) []diagnostic {
	nk, ok := lookupKernel(decl.Name)
	if !ok {
		return []diagnostic{{Line: decl.Line, Msg: fmt.Sprintf("kernel '%s' has no native implementation on %s", decl.Name, d.info.Name)}}
	}
	want := nk.Params()
	if len(want) != len(decl.Params) {
		return []diagnostic{{Line: decl.Line, Msg: fmt.Sprintf("kernel '%s' declares %d parameters, native implementation takes %d", decl.Name, len(decl.Params), len(want))}}
	}
	var diags []diagnostic
	for i := range want {
		if want[i] != decl.Params[i] {
			diags = append(diags, diagnostic{Line: decl.Line, Msg: fmt.Sprintf("kernel '%s' parameter %d is '%s', native implementation expects '%s'", decl.Name, i+1, decl.Params[i], want[i])})
		}
	}
	return diags
}

func (p *Program) BuildLog(d compute.Device) string {
	hd, ok := d.(*device)
	if !ok {
		return ""
	}
	return p.logs[hd]
}

func (p *Program) CreateKernel(name string) (compute.Kernel, error) {
	const op = "clCreateKernel"
	if !p.built {
		return nil, compute.Errorf(compute.StatusInvalidProgramExecutable, op, "program not built")
	}
	decl, ok := p.decls[name]
	if !ok {
		return nil, compute.Errorf(compute.StatusInvalidKernelName, op, "no kernel named '%s'", name)
	}
	nk, _ := lookupKernel(name)
	return &Kernel{
		name:   name,
		params: decl.Params,
		native: nk,
		args:   make([]any, len(decl.Params)),
	}, nil
}

func (p *Program) Release() {
	p.decls = nil
	p.built = false
}

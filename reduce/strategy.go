package reduce

import (
	"fmt"
	"sort"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/kernels"
	"github.com/openfluke/maxbench/logging"
)

// Strategy is one way of computing the maximum of a dataset.
type Strategy interface {
	Name() string
	Run(x *ExecContext, values []int32) (Timing, error)
}

// ExecContext carries what a strategy may need: the compute backend and
// kernel source for accelerated runs, and the logger.
type ExecContext struct {
	Backend compute.Backend
	Source  kernels.Source
	Log     *logging.Logger
}

func (x *ExecContext) logger() *logging.Logger {
	if x == nil || x.Log == nil {
		return logging.Nop()
	}
	return x.Log
}

// Sequential is the single-threaded scan.
type Sequential struct{}

func (Sequential) Name() string { return "sequential" }

func (Sequential) Run(_ *ExecContext, values []int32) (Timing, error) {
	return MaxSequential(values)
}

// Accelerated offloads the reduction to the first device of Class.
type Accelerated struct {
	Class compute.DeviceType
}

func (a Accelerated) Name() string {
	if a.Class == compute.DeviceTypeGPU {
		return "gpu-accelerator"
	}
	return "cpu-accelerator"
}

func (a Accelerated) Run(x *ExecContext, values []int32) (Timing, error) {
	if x == nil {
		x = &ExecContext{}
	}
	return RunAccelerated(x, a.Class, values)
}

var (
	registry = map[string]Strategy{}
	aliases  = map[string]string{}
)

func init() {
	Register(Sequential{}, "s")
	Register(Accelerated{Class: compute.DeviceTypeCPU}, "c")
	Register(Accelerated{Class: compute.DeviceTypeGPU}, "g")
}

// Register adds s under its name and any short aliases.
func Register(s Strategy, alias ...string) {
	registry[s.Name()] = s
	for _, a := range alias {
		aliases[a] = s.Name()
	}
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Canonical maps an alias to its strategy name. Unknown names are returned
// as given.
func Canonical(name string) string {
	if n, ok := aliases[name]; ok {
		return n
	}
	return name
}

// Lookup resolves a strategy by name or alias.
func Lookup(name string) (Strategy, error) {
	s, ok := registry[Canonical(name)]
	if !ok {
		return nil, newError(KindUnsupported, "strategy", fmt.Errorf("%w: %q", ErrUnknownStrategy, name))
	}
	return s, nil
}

// ClassOf returns the device class a strategy dispatches to, if any.
func ClassOf(s Strategy) (compute.DeviceType, bool) {
	if a, ok := s.(Accelerated); ok {
		return a.Class, true
	}
	return 0, false
}

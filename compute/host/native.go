package host

import (
	"sync"

	"github.com/openfluke/maxbench/compute"
)

// Group identifies one work-group of a launch.
type Group struct {
	ID        []int // group index per dimension
	Size      []int // local extent per dimension
	NumGroups []int
}

// Linear returns the row-major linear index of the group.
func (g Group) Linear() int {
	idx, stride := 0, 1
	for d := range g.ID {
		idx += g.ID[d] * stride
		stride *= g.NumGroups[d]
	}
	return idx
}

// NativeKernel is a kernel body the host backend can run. RunGroup executes
// every work-item of one group, honouring barrier order itself. Arguments
// arrive in parameter order: global buffers as *Memory, local buffers as a
// private []int32 scratch slice, scalars as uint32 or int32.
type NativeKernel interface {
	Params() []compute.ParamKind
	RunGroup(g Group, args []any)
}

var (
	nativeMu sync.RWMutex
	natives  = map[string]NativeKernel{}
)

// RegisterKernel makes k available to programs declaring a kernel called
// name.
func RegisterKernel(name string, k NativeKernel) {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	natives[name] = k
}

func lookupKernel(name string) (NativeKernel, bool) {
	nativeMu.RLock()
	defer nativeMu.RUnlock()
	k, ok := natives[name]
	return k, ok
}

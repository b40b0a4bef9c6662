package kernels

import (
	"math"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/compute/host"
)

func init() {
	host.RegisterKernel(EntryPoint, MaxInt{})
}

// MaxInt is the host body of maxint.cl.
type MaxInt struct{}

func (MaxInt) Params() []compute.ParamKind {
	return []compute.ParamKind{
		compute.ParamGlobalBuffer,
		compute.ParamUint32,
		compute.ParamUint32,
		compute.ParamLocalBuffer,
	}
}

func (MaxInt) RunGroup(g host.Group, args []any) {
	values := args[0].(*host.Memory)
	count := int(args[1].(uint32))
	localSize := int(args[2].(uint32))
	scratch := args[3].([]int32)[:localSize]

	base := g.ID[0] * localSize
	for lid := range scratch {
		if gid := base + lid; gid < count {
			scratch[lid] = values.Load(gid)
		} else {
			scratch[lid] = math.MinInt32
		}
	}
	// barrier

	for active := localSize; active > 1; {
		half := (active + 1) / 2
		for lid := 0; lid < active-half; lid++ {
			if scratch[lid+half] > scratch[lid] {
				scratch[lid] = scratch[lid+half]
			}
		}
		active = half
	}

	values.AtomicMax(0, scratch[0])
}

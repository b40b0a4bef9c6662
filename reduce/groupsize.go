package reduce

const (
	xDim = 0
	yDim = 1
)

// WorkSizing holds the global and local extents of a launch, one entry per
// dimension.
type WorkSizing struct {
	Global []int
	Local  []int
}

// Dims returns the dimensionality of the sizing.
func (w WorkSizing) Dims() int { return len(w.Global) }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// CalcWorkGroupSize rewrites w.Local so that every local extent fits and
// evenly divides its global extent, with the group staying within
// maxGroupSize work-items. Local entries on input are the requested sizes.
//
// In one dimension the local size becomes gcd(global, local), or global when
// the request exceeds it. A gcd of 1 is kept: the launch then runs one
// work-item per group. Two dimensions are clamped and then shrunk in
// lock-step. Any other dimensionality, mismatched slices or non-positive
// extents leave w untouched and report false.
func CalcWorkGroupSize(w *WorkSizing, maxGroupSize int) bool {
	if len(w.Local) != len(w.Global) {
		return false
	}
	for _, g := range w.Global {
		if g < 1 {
			return false
		}
	}
	switch w.Dims() {
	case 1:
		global, local := w.Global[xDim], max(w.Local[xDim], 1)
		if global < local {
			local = global
		} else {
			local = gcd(global, local)
		}
		w.Local[xDim] = local
		return true

	case 2:
		// Extension point: nothing launches 2D reductions yet.
		gx, gy := w.Global[xDim], w.Global[yDim]
		lx, ly := max(w.Local[xDim], 1), max(w.Local[yDim], 1)
		lx, ly = min(lx, gx), min(ly, gy)
		for (lx*ly > maxGroupSize || gx%lx != 0 || gy%ly != 0) && (lx > 1 || ly > 1) {
			if lx > 1 {
				lx--
			}
			if ly > 1 {
				ly--
			}
		}
		w.Local[xDim], w.Local[yDim] = lx, ly
		return true

	default:
		return false
	}
}

// Sizing1D sizes a one-dimensional launch over global work-items, starting
// from the device's maximum group size.
func Sizing1D(global, maxGroupSize int) WorkSizing {
	w := WorkSizing{Global: []int{global}, Local: []int{maxGroupSize}}
	CalcWorkGroupSize(&w, maxGroupSize)
	return w
}

// Sizing2D sizes a two-dimensional launch, starting from maxGroupSize in
// both dimensions.
func Sizing2D(globalX, globalY, maxGroupSize int) WorkSizing {
	w := WorkSizing{
		Global: []int{globalX, globalY},
		Local:  []int{maxGroupSize, maxGroupSize},
	}
	CalcWorkGroupSize(&w, maxGroupSize)
	return w
}

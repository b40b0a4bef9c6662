package reduce

import "github.com/openfluke/maxbench/timeutil"

// MaxSequential folds values into values[0] with a single linear pass and
// returns the time the pass took.
func MaxSequential(values []int32) (Timing, error) {
	if len(values) == 0 {
		return Timing{}, newError(KindConfiguration, "maxValue", ErrEmptyDataset)
	}
	var clock timeutil.Clock
	clock.Start()
	for i := 1; i < len(values); i++ {
		values[0] = max(values[0], values[i])
	}
	clock.Stop()
	return Timing{Host: clock.Elapsed()}, nil
}

package bench

import (
	"math/rand"
	"time"
)

// Sentinel values written over the random fill, in write order.
const (
	SentinelHalf  int32 = 4242 // at N/2
	SentinelLast  int32 = 7331 // at N-1
	SentinelThird int32 = 2323 // at N/3
)

const fillRange = 1024

// NewDataset returns n values in [0, 1024) drawn from seed, with the
// sentinels written over them. A zero seed draws from the clock.
func NewDataset(n int, seed int64) []int32 {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	values := make([]int32, n)
	for i := range values {
		values[i] = int32(r.Intn(fillRange))
	}
	InjectSentinels(values)
	return values
}

// InjectSentinels writes the three sentinels. Later writes win where the
// positions coincide for small n.
func InjectSentinels(values []int32) {
	n := len(values)
	if n == 0 {
		return
	}
	values[n/2] = SentinelHalf
	values[n-1] = SentinelLast
	values[n/3] = SentinelThird
}

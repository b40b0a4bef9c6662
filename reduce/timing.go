package reduce

import "time"

// Timing is the outcome of one run. Host covers the whole run as seen by
// the host clock; Kernel is the device-reported execution time of the
// kernel alone and is only meaningful when HasKernel is set.
type Timing struct {
	Host      time.Duration
	Kernel    time.Duration
	HasKernel bool
}

// Seconds returns the host duration in seconds.
func (t Timing) Seconds() float64 { return t.Host.Seconds() }

// KernelSeconds returns the device duration in seconds.
func (t Timing) KernelSeconds() float64 { return t.Kernel.Seconds() }

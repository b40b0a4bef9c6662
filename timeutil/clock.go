// Package timeutil holds the host wall-clock timer used to time reductions.
package timeutil

import "time"

// Clock measures one interval between Start and Stop.
type Clock struct {
	start   time.Time
	stop    time.Time
	running bool
}

// Start begins a new interval, discarding any previous one.
func (c *Clock) Start() {
	c.start = time.Now()
	c.stop = time.Time{}
	c.running = true
}

// Stop ends the running interval. It is a no-op when the clock is not running.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.stop = time.Now()
	c.running = false
}

// Running reports whether Start was called without a matching Stop.
func (c *Clock) Running() bool { return c.running }

// Elapsed returns the measured interval. A clock that was never started or
// never stopped reports zero.
func (c *Clock) Elapsed() time.Duration {
	if c.start.IsZero() || c.stop.IsZero() {
		return 0
	}
	return c.stop.Sub(c.start)
}

// Seconds returns Elapsed in seconds.
func (c *Clock) Seconds() float64 { return c.Elapsed().Seconds() }

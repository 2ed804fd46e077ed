package sim

import (
	"math"
	"time"
)

// DefaultMaxStep bounds a single frame delta so a stalled window does not
// fling every particle through the ground on the next frame.
const DefaultMaxStep = 0.1

// Clock is the frame loop's monotonic simulation time. Systems never read
// it directly; the loop passes Delta (and Elapsed for turbulence) down.
type Clock struct {
	MaxStep float64

	elapsed float64
	delta   float64
}

func NewClock() *Clock {
	return &Clock{MaxStep: DefaultMaxStep}
}

// Tick advances the clock by dt seconds, clamped to [0, MaxStep], and
// returns the applied delta.
func (c *Clock) Tick(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if c.MaxStep > 0 && dt > c.MaxStep {
		dt = c.MaxStep
	}
	c.delta = dt
	c.elapsed += dt
	return dt
}

// Elapsed is total simulated seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Delta is the last applied frame delta in seconds.
func (c *Clock) Delta() float64 {
	return c.delta
}

// Now is Elapsed as a duration, used for timers and effect triggers.
func (c *Clock) Now() time.Duration {
	return time.Duration(math.Round(c.elapsed * float64(time.Second)))
}

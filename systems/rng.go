package systems

import "time"

// RNG is the random source every system draws from. *rand.Rand satisfies it;
// tests inject scripted streams.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// Clock converts real tick intervals into simulation time.
type Clock struct {
	now   time.Duration
	scale float64
}

// NewClock creates a clock at t=0. scale is simulated seconds per real second.
func NewClock(scale float64) *Clock {
	if scale <= 0 {
		scale = 1
	}
	return &Clock{scale: scale}
}

// Advance moves the clock forward by one real interval and returns the
// simulated delta.
func (c *Clock) Advance(real time.Duration) time.Duration {
	dt := time.Duration(float64(real) * c.scale)
	c.now += dt
	return dt
}

// Now returns the current simulation time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Package clock measures wall time between frames.
//
// The delta reported to update logic is clamped so that a stall (debugger
// pause, app backgrounding) never produces a single huge step. A separately
// filtered frame duration is kept for diagnostics only.
package clock

import "time"

// SmoothingFactor is the weight of the newest sample in the frame time filter.
const SmoothingFactor = 0.10

// Source provides the current time.
type Source interface {
	Now() time.Time
}

// DeltaSource is a Source that dictates the raw delta of every tick, such
// as a recorded trace. Tick asks it instead of measuring wall time.
type DeltaSource interface {
	Source
	NextDelta() (float64, bool)
}

// SystemSource reads the monotonic system clock.
type SystemSource struct{}

// Now returns time.Now().
func (SystemSource) Now() time.Time {
	return time.Now()
}

// Clock tracks elapsed time between ticks.
type Clock struct {
	source        Source
	last          time.Time
	maxDelta      float64
	delta         float64
	smoothed      float64
	nextDeltaZero bool
}

// New creates a clock that clamps deltas to 1/minFPS seconds.
// A nil source uses the system clock.
func New(source Source, minFPS float64) *Clock {
	if source == nil {
		source = SystemSource{}
	}
	c := &Clock{
		source:   source,
		maxDelta: 1.0 / minFPS,
	}
	c.last = source.Now()
	return c
}

// Reset marks the current time as the last update.
func (c *Clock) Reset() {
	c.last = c.source.Now()
}

// Tick returns the seconds elapsed since the previous tick, clamped to
// [0, 1/minFPS]. If ForceNextDeltaZero was called, it returns 0 once.
func (c *Clock) Tick() float64 {
	raw := c.measure()

	if raw < 0 {
		raw = 0
	}
	c.smoothed = raw*SmoothingFactor + c.smoothed*(1-SmoothingFactor)

	switch {
	case c.nextDeltaZero:
		c.nextDeltaZero = false
		c.delta = 0
	case raw > c.maxDelta:
		c.delta = c.maxDelta
	default:
		c.delta = raw
	}
	return c.delta
}

func (c *Clock) measure() float64 {
	if ds, ok := c.source.(DeltaSource); ok {
		raw, _ := ds.NextDelta()
		c.last = ds.Now()
		return raw
	}
	now := c.source.Now()
	raw := now.Sub(c.last).Seconds()
	c.last = now
	return raw
}

// ForceNextDeltaZero makes the next Tick report zero regardless of elapsed time.
func (c *Clock) ForceNextDeltaZero() {
	c.nextDeltaZero = true
}

// SetNextDeltaZero sets or clears the one-shot zero delta flag.
func (c *Clock) SetNextDeltaZero(zero bool) {
	c.nextDeltaZero = zero
}

// NextDeltaZero reports whether the next tick will be forced to zero.
func (c *Clock) NextDeltaZero() bool {
	return c.nextDeltaZero
}

// Delta returns the delta reported by the last Tick.
func (c *Clock) Delta() float64 {
	return c.delta
}

// MaxDelta returns the clamp ceiling in seconds.
func (c *Clock) MaxDelta() float64 {
	return c.maxDelta
}

// SmoothedFrameTime returns the filtered wall time per frame in seconds.
func (c *Clock) SmoothedFrameTime() float64 {
	return c.smoothed
}

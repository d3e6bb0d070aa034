// Package animation owns the run state of the frame loop: whether it is
// ticking, paused or stopped, and at which interval the platform should
// call it.
package animation

import (
	"github.com/younwookim/stagehand/internal/application/clock"
	"github.com/younwookim/stagehand/internal/application/state"
)

// DefaultPauseFPS is the loop rate while paused.
const DefaultPauseFPS = 4.0

// Platform receives the desired seconds per frame.
type Platform interface {
	SetAnimationInterval(seconds float64)
}

// Driver starts, stops, pauses and resumes the frame loop.
type Driver struct {
	clock    *clock.Clock
	platform Platform

	interval      float64
	savedInterval float64
	pauseInterval float64

	invalid bool
	paused  bool
}

// NewDriver creates a stopped driver. A non-positive pauseFPS falls back to
// DefaultPauseFPS. platform may be nil.
func NewDriver(c *clock.Clock, platform Platform, interval, pauseFPS float64) *Driver {
	if pauseFPS <= 0 {
		pauseFPS = DefaultPauseFPS
	}
	return &Driver{
		clock:         c,
		platform:      platform,
		interval:      interval,
		pauseInterval: 1.0 / pauseFPS,
		invalid:       true,
	}
}

// Start marks the current time, clears the stopped flag and tells the
// platform the interval. The first delta after Start is zero.
func (d *Driver) Start() {
	d.clock.Reset()
	d.invalid = false
	d.notify(d.interval)
	d.clock.ForceNextDeltaZero()
}

// Stop suppresses update and render until the next Start.
func (d *Driver) Stop() {
	d.invalid = true
}

// Pause keeps the loop alive at a low rate. The interval is restored by Resume.
func (d *Driver) Pause() {
	if d.paused {
		return
	}
	d.savedInterval = d.interval
	d.SetInterval(d.pauseInterval)
	d.paused = true
}

// Resume restores the interval saved by Pause and forces the next delta to
// zero so the paused time is not replayed in one step.
func (d *Driver) Resume() {
	if !d.paused {
		return
	}
	d.SetInterval(d.savedInterval)
	d.paused = false
	d.clock.ForceNextDeltaZero()
}

// SetInterval changes the seconds per frame. A running driver is restarted
// so the platform picks it up immediately.
func (d *Driver) SetInterval(seconds float64) {
	d.interval = seconds
	if !d.invalid {
		d.Stop()
		d.Start()
	}
}

func (d *Driver) notify(seconds float64) {
	if d.platform != nil {
		d.platform.SetAnimationInterval(seconds)
	}
}

// Interval returns the current seconds per frame.
func (d *Driver) Interval() float64 { return d.interval }

// IsPaused reports whether Pause is in effect.
func (d *Driver) IsPaused() bool { return d.paused }

// IsStopped reports whether the loop is suppressed.
func (d *Driver) IsStopped() bool { return d.invalid }

// Clock returns the clock the driver resets.
func (d *Driver) Clock() *clock.Clock { return d.clock }

// State returns the combined run state. A stopped driver reports
// StateStopped even while paused.
func (d *Driver) State() state.RunState {
	switch {
	case d.invalid:
		return state.StateStopped
	case d.paused:
		return state.StatePaused
	default:
		return state.StateRunning
	}
}

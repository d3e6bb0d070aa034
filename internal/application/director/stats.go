package director

// Stats is the diagnostics snapshot drawn by the stats overlay.
type Stats struct {
	Frames          uint64
	FPS             float64
	Delta           float64
	SecondsPerFrame float64
	Scene           string
	Depth           int
	Paused          bool
}

// statsAccumulator averages the frame rate over a window of frames.
type statsAccumulator struct {
	frames  int
	accumDt float64
	fps     float64
}

// add counts a frame. Frames with a forced zero delta carry no time and
// are skipped.
func (a *statsAccumulator) add(dt float64) {
	if dt <= 0 {
		return
	}
	a.frames++
	a.accumDt += dt
}

// flush recomputes the rate once window frames were added.
func (a *statsAccumulator) flush(window int) {
	if window < 1 {
		window = 1
	}
	if a.frames < window {
		return
	}
	if a.accumDt > 0 {
		a.fps = float64(a.frames) / a.accumDt
	}
	a.frames = 0
	a.accumDt = 0
}

// SetDisplayStats toggles the stats overlay. Stats are collected either way.
func (d *Director) SetDisplayStats(display bool) {
	d.displayStats = display
}

// IsDisplayStats reports whether the stats overlay is drawn.
func (d *Director) IsDisplayStats() bool {
	return d.displayStats
}

// statsWindow is one second worth of frames at the configured rate.
func (d *Director) statsWindow() int {
	return int(d.cfg.FPS + 0.5)
}

// Stats returns the current diagnostics without changing them. FPS is
// averaged over one second worth of frames at the configured rate and is
// updated on every draw cycle, whether or not the overlay is shown.
func (d *Director) Stats() Stats {
	return Stats{
		Frames:          d.totalFrames,
		FPS:             d.stats.fps,
		Delta:           d.clock.Delta(),
		SecondsPerFrame: d.clock.SmoothedFrameTime(),
		Scene:           d.runningName(),
		Depth:           d.stack.Depth(),
		Paused:          d.driver.IsPaused(),
	}
}

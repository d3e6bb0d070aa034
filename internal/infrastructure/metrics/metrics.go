// Package metrics exports director diagnostics to Prometheus and serves
// them over HTTP.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/younwookim/stagehand/internal/application/director"
	"github.com/younwookim/stagehand/internal/application/trace"
)

const namespace = "stagehand"

// StatsSource provides the diagnostics snapshot of a frame.
type StatsSource interface {
	Stats() director.Stats
}

// Collector is a director.FrameRecorder that updates metrics for every
// completed draw cycle and forwards the frame to next.
//
// RecordFrame runs on the loop goroutine; Snapshot may be called from any
// goroutine.
type Collector struct {
	registry *prometheus.Registry
	frames   prometheus.Counter
	delta    prometheus.Histogram
	fps      prometheus.Gauge
	depth    prometheus.Gauge
	paused   prometheus.Gauge

	next   director.FrameRecorder
	source StatsSource

	mu        sync.RWMutex
	last      director.Stats
	lastFrame uint64
}

// NewCollector creates a collector with its own registry. next may be nil.
func NewCollector(next director.FrameRecorder) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "director",
			Name:      "frames_total",
			Help:      "Completed draw cycles.",
		}),
		delta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "director",
			Name:      "frame_delta_seconds",
			Help:      "Clamped delta passed to the scheduler.",
			Buckets:   []float64{0, 0.004, 0.008, 0.0167, 0.025, 0.034, 0.05, 0.1},
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "director",
			Name:      "fps",
			Help:      "Frame rate averaged over one second of frames.",
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "director",
			Name:      "scene_stack_depth",
			Help:      "Scenes on the stack.",
		}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "director",
			Name:      "paused",
			Help:      "1 while the director is paused.",
		}),
		next: next,
	}
	c.registry.MustRegister(c.frames, c.delta, c.fps, c.depth, c.paused)
	return c
}

// Bind sets the source of the per-frame snapshot. Without a source only
// the frame counter, delta and pause state are tracked.
func (c *Collector) Bind(source StatsSource) {
	c.source = source
}

// RecordFrame updates the metrics from f and forwards it.
func (c *Collector) RecordFrame(f trace.Frame) {
	stats := director.Stats{Frames: f.F, Delta: f.DT, Scene: f.S, Paused: f.P}
	if c.source != nil {
		stats = c.source.Stats()
	}

	if f.F > c.lastFrame {
		c.frames.Add(float64(f.F - c.lastFrame))
		c.lastFrame = f.F
	}
	c.delta.Observe(f.DT)
	c.fps.Set(stats.FPS)
	c.depth.Set(float64(stats.Depth))
	if f.P {
		c.paused.Set(1)
	} else {
		c.paused.Set(0)
	}

	c.mu.Lock()
	c.last = stats
	c.mu.Unlock()

	if c.next != nil {
		c.next.RecordFrame(f)
	}
}

// Snapshot returns the stats of the last recorded frame.
func (c *Collector) Snapshot() director.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

var _ director.FrameRecorder = (*Collector)(nil)

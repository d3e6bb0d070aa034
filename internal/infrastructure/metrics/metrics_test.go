package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/stagehand/internal/application/director"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/trace"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
)

// fakeSource returns fixed stats
type fakeSource struct {
	stats director.Stats
	calls int
}

func (f *fakeSource) Stats() director.Stats {
	f.calls++
	return f.stats
}

// sink records forwarded frames
type sink struct {
	frames []trace.Frame
}

func (s *sink) RecordFrame(f trace.Frame) {
	s.frames = append(s.frames, f)
}

func TestCollector_RecordFrame(t *testing.T) {
	next := &sink{}
	src := &fakeSource{stats: director.Stats{Frames: 2, FPS: 58, Depth: 3, Scene: "play-3"}}
	c := NewCollector(next)
	c.Bind(src)

	c.RecordFrame(trace.Frame{F: 1, DT: 0.016, S: "play-3"})
	c.RecordFrame(trace.Frame{F: 2, DT: 0.017, S: "play-3", P: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.frames))
	assert.Equal(t, 58.0, testutil.ToFloat64(c.fps))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.depth))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.paused))
	assert.Equal(t, 2, src.calls)
	assert.Len(t, next.frames, 2, "frames are forwarded")
	assert.Equal(t, "play-3", c.Snapshot().Scene)
}

func TestCollector_WithoutSource(t *testing.T) {
	c := NewCollector(nil)

	c.RecordFrame(trace.Frame{F: 5, DT: 0.02, S: "title"})

	assert.Equal(t, 5.0, testutil.ToFloat64(c.frames), "counter catches up to the frame number")
	s := c.Snapshot()
	assert.Equal(t, uint64(5), s.Frames)
	assert.Equal(t, "title", s.Scene)
	assert.InDelta(t, 0.02, s.Delta, 1e-9)
}

func TestCollector_FrameCounterNeverDecreases(t *testing.T) {
	c := NewCollector(nil)

	c.RecordFrame(trace.Frame{F: 3})
	c.RecordFrame(trace.Frame{F: 3})
	c.RecordFrame(trace.Frame{F: 4})

	assert.Equal(t, 4.0, testutil.ToFloat64(c.frames))
}

// nopRenderer accepts every scene
type nopRenderer struct{}

func (nopRenderer) Clear() {}

func (nopRenderer) Render(scene.Scene, mgl32.Mat4) error { return nil }

// steppedClock advances by a fixed step on demand
type steppedClock struct {
	now time.Time
}

func (c *steppedClock) Now() time.Time { return c.now }

func TestCollector_FPSWithOverlayOff(t *testing.T) {
	c := NewCollector(nil)
	clk := &steppedClock{now: time.Unix(1000, 0)}
	cfg := config.Default()
	cfg.DisplayStats = false
	d := director.New(director.Options{
		Config:   cfg,
		Renderer: nopRenderer{},
		Clock:    clk,
		Recorder: c,
	})
	c.Bind(d)

	a := scene.NewBase("A")
	d.RunWithScene(&a)
	for i := 0; i < 121; i++ {
		require.NoError(t, d.MainLoop())
		clk.now = clk.now.Add(20 * time.Millisecond)
	}

	assert.Equal(t, 121.0, testutil.ToFloat64(c.frames))
	assert.InDelta(t, 50, testutil.ToFloat64(c.fps), 1e-6)
	assert.InDelta(t, 50, c.Snapshot().FPS, 1e-6)
	assert.Equal(t, "A", c.Snapshot().Scene)
}

func newTestRouter(t *testing.T) (*gin.Engine, *Collector) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := NewCollector(nil)
	c.Bind(&fakeSource{stats: director.Stats{Frames: 7, FPS: 60, Scene: "title", Depth: 1}})
	c.RecordFrame(trace.Frame{F: 7, DT: 0.016, S: "title"})
	return NewRouter(c, zerolog.Nop()), c
}

func TestRouter_Stats(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got statsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(7), got.Frames)
	assert.Equal(t, 60.0, got.FPS)
	assert.Equal(t, "title", got.Scene)
	assert.Equal(t, 1, got.Depth)
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stagehand_director_frames_total 7")
	assert.Contains(t, w.Body.String(), "stagehand_director_scene_stack_depth 1")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

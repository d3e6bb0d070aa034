// Package director runs the frame loop. Each iteration it ticks the
// scheduler, commits the pending scene between update and render, renders
// the running scene and drains deferred purge and restart requests.
//
// All methods must be called from the goroutine that runs MainLoop, except
// End and Restart which only record a request.
package director

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/younwookim/stagehand/internal/application/action"
	"github.com/younwookim/stagehand/internal/application/animation"
	"github.com/younwookim/stagehand/internal/application/clock"
	"github.com/younwookim/stagehand/internal/application/event"
	"github.com/younwookim/stagehand/internal/application/pool"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/scenestack"
	"github.com/younwookim/stagehand/internal/application/scheduler"
	"github.com/younwookim/stagehand/internal/application/trace"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
	"github.com/younwookim/stagehand/internal/infrastructure/logging"
)

// Renderer draws scenes. Render blocks until the draw commands of the
// frame are submitted.
type Renderer interface {
	Clear()
	Render(s scene.Scene, viewProj mgl32.Mat4) error
}

// StatsRenderer is implemented by renderers that can draw the stats overlay.
type StatsRenderer interface {
	RenderStats(s Stats)
}

// Caches is purged on PurgeCachedData and destroyed on teardown, in a fixed
// order owned by the implementation.
type Caches interface {
	PurgeUnused()
	DestroyAll()
}

// FrameRecorder receives one record per completed draw cycle.
type FrameRecorder interface {
	RecordFrame(f trace.Frame)
}

// Options configures a Director. Only Renderer is required.
type Options struct {
	Config   config.DirectorConfig
	Renderer Renderer
	Platform animation.Platform
	Caches   Caches
	Clock    clock.Source
	Logger   *zerolog.Logger
	Recorder FrameRecorder

	// OnEnd runs once the director was purged after End.
	OnEnd func()
	// OnRestart runs after a restart reinitialized the director. The
	// application is expected to run a new scene from it.
	OnRestart func()
}

// Director owns the frame clock, the scene stack and the animation driver.
type Director struct {
	cfg      config.DirectorConfig
	log      zerolog.Logger
	source   clock.Source
	renderer Renderer
	platform animation.Platform
	caches   Caches
	recorder FrameRecorder

	onEnd     func()
	onRestart func()

	clock  *clock.Clock
	stack  *scenestack.Stack
	driver *animation.Driver

	sched   *scheduler.Scheduler
	actions *action.Manager
	bus     *event.Bus
	pool    *pool.Pool

	notification scene.Scene

	purgeRequested   atomic.Bool
	restartRequested atomic.Bool
	ended            bool

	totalFrames  uint64
	displayStats bool
	stats        statsAccumulator

	projection       Projection
	customProjection mgl32.Mat4
	projMatrix       mgl32.Mat4
	camera           mgl32.Mat4
	winW, winH       float32
	viewProjs        []mgl32.Mat4
}

// New creates a stopped director. A zero Config means config.Default().
// An invalid configuration is a fatal assertion.
func New(opts Options) *Director {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	cfg := opts.Config
	if cfg == (config.DirectorConfig{}) {
		cfg = config.Default()
	}

	d := &Director{
		cfg:          cfg,
		log:          logging.Component(log, "director"),
		source:       opts.Clock,
		renderer:     opts.Renderer,
		platform:     opts.Platform,
		caches:       opts.Caches,
		recorder:     opts.Recorder,
		onEnd:        opts.OnEnd,
		onRestart:    opts.OnRestart,
		sched:        scheduler.New(logging.Component(log, "scheduler")),
		actions:      action.NewManager(logging.Component(log, "actions")),
		bus:          event.New(),
		pool:         pool.New(64),
		displayStats: cfg.DisplayStats,
		projMatrix:   mgl32.Ident4(),
		camera:       mgl32.Ident4(),
		viewProjs:    []mgl32.Mat4{mgl32.Ident4()},
	}
	d.assertf(d.renderer != nil, "renderer must not be nil")
	err := cfg.Validate()
	d.assertf(err == nil, "invalid configuration: %v", err)
	projection, err := ParseProjection(cfg.Projection)
	d.assertf(err == nil, "invalid configuration: %v", err)
	d.projection = projection

	d.init()
	if cfg.Window.Width > 0 && cfg.Window.Height > 0 {
		d.SetWinSize(cfg.Window.Width, cfg.Window.Height)
	}
	return d
}

// init builds the per-run state: clock, stack and driver. The action
// manager is registered with the scheduler at system priority.
func (d *Director) init() {
	d.clock = clock.New(d.source, d.cfg.MinFPS)
	d.stack = scenestack.New(d.cfg.SceneStackCapacity, logging.Component(d.log, "scenestack"))
	d.driver = animation.NewDriver(d.clock, d.platform, d.cfg.AnimationInterval(), d.cfg.PauseFPS)
	d.sched.ScheduleUpdate(d.actions, scheduler.PrioritySystem, false)
}

// MainLoop runs one iteration. Deferred purge and restart requests are
// handled first and skip the draw cycle. Per-frame allocations are
// released on every path.
func (d *Director) MainLoop() error {
	defer d.pool.Clear()

	switch {
	case d.purgeRequested.CompareAndSwap(true, false):
		d.purge()
		return nil
	case d.restartRequested.CompareAndSwap(true, false):
		d.restart()
		return nil
	case d.driver.IsStopped():
		return nil
	}
	return d.drawScene()
}

func (d *Director) drawScene() error {
	dt := d.clock.Tick()

	if !d.driver.IsPaused() {
		d.bus.Dispatch(event.BeforeUpdate)
		if err := d.sched.Tick(dt); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		d.bus.Dispatch(event.AfterUpdate)
	}

	d.renderer.Clear()

	if _, err := d.stack.Commit(); err != nil {
		d.must(err)
	}

	// projection * camera view, restored after the frame
	d.PushViewProjection()
	defer d.PopViewProjection()
	d.LoadViewProjection(d.baseViewProjection())
	vp := d.ViewProjection()

	if running := d.stack.Running(); running != nil {
		if err := d.renderer.Render(running, vp); err != nil {
			return &RenderError{Op: "render scene " + running.Name(), Err: err}
		}
		d.bus.Dispatch(event.AfterVisit)
	}

	if d.notification != nil {
		if err := d.renderer.Render(d.notification, vp); err != nil {
			return &RenderError{Op: "render notification node", Err: err}
		}
	}

	d.stats.add(dt)
	d.stats.flush(d.statsWindow())
	if d.displayStats {
		if sr, ok := d.renderer.(StatsRenderer); ok {
			sr.RenderStats(d.Stats())
		}
	}

	d.bus.Dispatch(event.AfterDraw)

	d.totalFrames++
	if d.recorder != nil {
		d.recorder.RecordFrame(trace.Frame{
			F:  d.totalFrames,
			DT: dt,
			S:  d.runningName(),
			P:  d.driver.IsPaused(),
		})
	}
	return nil
}

// RunWithScene pushes the first scene and starts the animation.
func (d *Director) RunWithScene(s scene.Scene) {
	d.assertf(s != nil, "scene must not be nil")
	d.assertf(d.stack.Running() == nil, "running scene should be nil")

	d.PushScene(s)
	d.StartAnimation()
}

// ReplaceScene swaps the top of the stack for s at the next commit. With
// nothing running it behaves as RunWithScene.
func (d *Director) ReplaceScene(s scene.Scene) {
	d.assertf(s != nil, "scene must not be nil")
	if d.stack.Running() == nil && d.stack.Depth() == 0 {
		d.RunWithScene(s)
		return
	}
	d.must(d.stack.Replace(s))
}

// PushScene suspends the running scene and makes s current at the next
// commit.
func (d *Director) PushScene(s scene.Scene) {
	d.assertf(s != nil, "scene must not be nil")
	d.must(d.stack.Push(s))
}

// PopScene returns to the previous scene. Popping the last scene ends the
// program.
func (d *Director) PopScene() {
	d.assertf(d.stack.Running() != nil, "running scene should not be nil")
	d.endIfEmptied(d.stack.Pop())
}

// PopToRootScene pops every scene but the first.
func (d *Director) PopToRootScene() {
	d.PopToSceneStackLevel(1)
}

// PopToSceneStackLevel pops scenes until level remain. Level 0 ends the
// program.
func (d *Director) PopToSceneStackLevel(level int) {
	d.assertf(d.stack.Running() != nil, "a running scene is needed")
	d.endIfEmptied(d.stack.PopToLevel(level))
}

// endIfEmptied requests the end when a pop emptied the stack. Popping the
// stack after that is a no-op: the end is already pending.
func (d *Director) endIfEmptied(ended bool, err error) {
	if errors.Is(err, scenestack.ErrEmptyStack) {
		d.log.Debug().Err(err).Msg("pop ignored, end already requested")
		return
	}
	d.must(err)
	if ended {
		d.End()
	}
}

// End requests a purge at the top of the next MainLoop iteration. Safe to
// call from any goroutine.
func (d *Director) End() {
	d.purgeRequested.Store(true)
}

// Restart requests a teardown and reinitialization at the top of the next
// MainLoop iteration. Safe to call from any goroutine.
func (d *Director) Restart() {
	d.restartRequested.Store(true)
}

func (d *Director) purge() {
	d.log.Info().Uint64("frames", d.totalFrames).Msg("purging director")
	d.reset()
	d.ended = true
	if d.onEnd != nil {
		d.onEnd()
	}
}

func (d *Director) restart() {
	d.log.Info().Uint64("frames", d.totalFrames).Msg("restarting director")
	d.reset()
	d.ended = false
	d.init()
	d.StartAnimation()
	if d.onRestart != nil {
		d.onRestart()
	}
}

// reset tears everything down: running scene, stack, scheduled updates,
// listeners, the notification node and the caches.
func (d *Director) reset() {
	d.stack.Reset()

	d.bus.Dispatch(event.Reset)

	d.sched.UnscheduleAll()
	d.actions.RemoveAll()

	d.bus.RemoveAll()

	d.driver.Stop()

	if d.notification != nil {
		d.notification.OnExitTransitionDidStart()
		d.notification.OnExit()
		d.notification.Cleanup()
		d.notification = nil
	}

	if d.caches != nil {
		d.caches.DestroyAll()
	}

	d.SetCamera(mgl32.Ident4())
}

// PurgeCachedData drops unused entries from every cache.
func (d *Director) PurgeCachedData() {
	if d.caches != nil {
		d.caches.PurgeUnused()
	}
}

// StartAnimation starts the loop. The first delta after it is zero.
func (d *Director) StartAnimation() {
	d.driver.Start()
}

// StopAnimation suppresses update and render without tearing down.
func (d *Director) StopAnimation() {
	d.driver.Stop()
}

// Pause stops scheduler ticks and lowers the loop rate. Rendering continues.
func (d *Director) Pause() {
	d.driver.Pause()
}

// Resume undoes Pause. The first delta after it is zero.
func (d *Director) Resume() {
	d.driver.Resume()
}

// SetAnimationInterval changes the target seconds per frame.
func (d *Director) SetAnimationInterval(seconds float64) {
	d.driver.SetInterval(seconds)
}

// AnimationInterval returns the target seconds per frame.
func (d *Director) AnimationInterval() float64 {
	return d.driver.Interval()
}

// SetNotificationNode installs a node drawn after the running scene. The
// previous node is exited and cleaned up.
func (d *Director) SetNotificationNode(n scene.Scene) {
	if d.notification != nil {
		d.notification.OnExitTransitionDidStart()
		d.notification.OnExit()
		d.notification.Cleanup()
	}
	d.notification = n
	if n == nil {
		return
	}
	n.OnEnter()
	n.OnEnterTransitionDidFinish()
}

// NotificationNode returns the node drawn after the running scene, or nil.
func (d *Director) NotificationNode() scene.Scene {
	return d.notification
}

// SetNextDeltaTimeZero makes the next delta zero, or cancels a pending one.
func (d *Director) SetNextDeltaTimeZero(zero bool) {
	d.clock.SetNextDeltaZero(zero)
}

// RunningScene returns the scene being rendered.
func (d *Director) RunningScene() scene.Scene {
	return d.stack.Running()
}

// IsSendCleanupToScene reports whether the outgoing scene will be cleaned
// up on the next commit.
func (d *Director) IsSendCleanupToScene() bool {
	return d.stack.SendCleanupToScene()
}

// Scheduler returns the scheduler ticked on every unpaused draw cycle.
func (d *Director) Scheduler() *scheduler.Scheduler { return d.sched }

// ActionManager returns the action manager scheduled at system priority.
func (d *Director) ActionManager() *action.Manager { return d.actions }

// EventBus returns the bus the director lifecycle events are sent on.
func (d *Director) EventBus() *event.Bus { return d.bus }

// Pool returns the per-frame pool, cleared after every iteration.
func (d *Director) Pool() *pool.Pool { return d.pool }

// SceneStackDepth returns the number of scenes on the stack.
func (d *Director) SceneStackDepth() int { return d.stack.Depth() }

// TotalFrames returns the number of completed draw cycles.
func (d *Director) TotalFrames() uint64 { return d.totalFrames }

// DeltaTime returns the delta of the last draw cycle.
func (d *Director) DeltaTime() float64 { return d.clock.Delta() }

// SecondsPerFrame returns the smoothed wall time per frame.
func (d *Director) SecondsPerFrame() float64 { return d.clock.SmoothedFrameTime() }

// IsPaused reports whether Pause is in effect.
func (d *Director) IsPaused() bool { return d.driver.IsPaused() }

// IsAnimating reports whether MainLoop draws.
func (d *Director) IsAnimating() bool { return !d.driver.IsStopped() }

// IsEnded reports whether the director was purged after End.
func (d *Director) IsEnded() bool { return d.ended }

// Config returns the configuration the director was built with.
func (d *Director) Config() config.DirectorConfig { return d.cfg }

func (d *Director) runningName() string {
	if r := d.stack.Running(); r != nil {
		return r.Name()
	}
	return ""
}

var _ scene.Host = (*Director)(nil)

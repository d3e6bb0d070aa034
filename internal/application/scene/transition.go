package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/stagehand/internal/application/scheduler"
)

// Host is the part of the director a transition drives.
type Host interface {
	RunningScene() Scene
	ReplaceScene(s Scene)
	IsSendCleanupToScene() bool
	Scheduler() *scheduler.Scheduler
}

// Transition wraps the running scene and an incoming scene for a fixed
// duration. It enters and exits both wrapped scenes itself; when the
// duration elapses it asks the host to replace it with the incoming scene.
type Transition struct {
	Base
	host        Host
	in          Scene
	out         Scene
	duration    float64
	elapsed     float64
	sendCleanup bool
	finished    bool
}

// NewTransition creates a transition from the host's running scene to in.
// It panics if in is nil or already running on the host.
func NewTransition(name string, duration float64, in Scene, host Host) *Transition {
	if in == nil {
		panic("scene: transition needs an incoming scene")
	}
	out := host.RunningScene()
	if out == in {
		panic(fmt.Sprintf("scene: incoming scene %q must differ from the outgoing one", in.Name()))
	}
	return &Transition{
		Base:     NewBase(name),
		host:     host,
		in:       in,
		out:      out,
		duration: duration,
	}
}

// Kind returns KindTransition.
func (t *Transition) Kind() Kind {
	return KindTransition
}

// In returns the incoming scene.
func (t *Transition) In() Scene {
	return t.in
}

// Out returns the outgoing scene, nil when the transition started from an
// empty director.
func (t *Transition) Out() Scene {
	return t.out
}

// Progress returns the elapsed fraction in [0, 1].
func (t *Transition) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	p := t.elapsed / t.duration
	if p > 1 {
		p = 1
	}
	return p
}

// OnEnter starts exiting the outgoing scene, enters the incoming one and
// schedules the transition's own update.
func (t *Transition) OnEnter() {
	t.Base.OnEnter()
	t.sendCleanup = t.host.IsSendCleanupToScene()
	if t.out != nil {
		t.out.OnExitTransitionDidStart()
	}
	t.in.OnEnter()
	t.host.Scheduler().ScheduleUpdate(t, 0, false)
}

// OnExit exits the outgoing scene and finishes entering the incoming one.
func (t *Transition) OnExit() {
	t.Base.OnExit()
	t.host.Scheduler().Unschedule(t)
	if t.out != nil {
		t.out.OnExit()
	}
	t.in.OnEnterTransitionDidFinish()
}

// Cleanup cleans the outgoing scene when the director was replacing it.
func (t *Transition) Cleanup() {
	t.Base.Cleanup()
	t.host.Scheduler().Unschedule(t)
	if t.sendCleanup && t.out != nil {
		t.out.Cleanup()
	}
}

// Update advances the transition and hands over to the incoming scene
// once the duration elapsed.
func (t *Transition) Update(dt float64) error {
	if t.finished {
		return nil
	}
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.finished = true
		t.host.Scheduler().Unschedule(t)
		t.host.ReplaceScene(t.in)
	}
	return nil
}

// Draw renders the outgoing scene for the first half and the incoming
// scene for the second half.
func (t *Transition) Draw(target *ebiten.Image, viewProj mgl32.Mat4) {
	if t.Progress() < 0.5 && t.out != nil {
		t.out.Draw(target, viewProj)
		return
	}
	t.in.Draw(target, viewProj)
}

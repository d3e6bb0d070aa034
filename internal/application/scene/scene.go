// Package scene defines the Scene interface managed by the director.
//
// A scene is either a plain scene or a transition that wraps the outgoing
// and incoming scenes during a visual changeover. The director inspects
// Kind to decide whether it fires enter/exit hooks itself or leaves them
// to the transition.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Kind tags the scene variant.
type Kind int

const (
	KindPlain Kind = iota
	KindTransition
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "Plain"
	case KindTransition:
		return "Transition"
	default:
		return "Unknown"
	}
}

// Scene represents a screen of application content (title, menu, level, ...)
//
// Only one scene is running at a time. The director calls the lifecycle
// hooks in a fixed order when scenes are swapped.
type Scene interface {
	// Name identifies the scene in logs and frame traces.
	Name() string

	// Kind reports whether this is a plain scene or a transition.
	Kind() Kind

	// OnEnter is called when the scene becomes the running scene.
	OnEnter()

	// OnEnterTransitionDidFinish is called after OnEnter, or when the
	// transition that brought this scene in has finished.
	OnEnterTransitionDidFinish()

	// OnExitTransitionDidStart is called before OnExit.
	OnExitTransitionDidStart()

	// OnExit is called when the scene stops being the running scene.
	OnExit()

	// Cleanup releases everything the scene scheduled or allocated.
	// It is called when the scene leaves the stack for good.
	Cleanup()

	// IsRunning reports whether the scene is between OnEnter and OnExit.
	IsRunning() bool

	// Draw renders the scene to target with the given view-projection.
	Draw(target *ebiten.Image, viewProj mgl32.Mat4)
}

// Base is a plain scene with bookkeeping for the lifecycle hooks.
// Embed it and override the hooks you need; overrides must call the
// Base method so IsRunning stays correct.
type Base struct {
	name    string
	running bool
	cleaned bool
}

// NewBase creates a plain scene base with the given name.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the scene name.
func (b *Base) Name() string {
	return b.name
}

// Kind returns KindPlain.
func (b *Base) Kind() Kind {
	return KindPlain
}

// OnEnter marks the scene running.
func (b *Base) OnEnter() {
	b.running = true
}

// OnEnterTransitionDidFinish does nothing by default.
func (b *Base) OnEnterTransitionDidFinish() {}

// OnExitTransitionDidStart does nothing by default.
func (b *Base) OnExitTransitionDidStart() {}

// OnExit marks the scene stopped.
func (b *Base) OnExit() {
	b.running = false
}

// Cleanup marks the scene cleaned.
func (b *Base) Cleanup() {
	b.cleaned = true
}

// IsRunning reports whether the scene is between OnEnter and OnExit.
func (b *Base) IsRunning() bool {
	return b.running
}

// IsCleaned reports whether Cleanup was called.
func (b *Base) IsCleaned() bool {
	return b.cleaned
}

// Draw does nothing by default.
func (b *Base) Draw(*ebiten.Image, mgl32.Mat4) {}

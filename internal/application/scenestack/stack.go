// Package scenestack keeps the ordered scene stack together with the
// running scene and the pending scene that replaces it at the next commit.
//
// Mutations only record the pending scene. Commit applies it, once per
// frame, between the update and the render phase.
package scenestack

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
)

// DefaultCapacity is the capacity reserved for a new stack.
const DefaultCapacity = 15

var (
	// ErrNilScene is returned when a nil scene is pushed or replaced.
	ErrNilScene = errors.New("scene must not be nil")

	// ErrNoRunningScene is returned when an operation needs a running scene.
	ErrNoRunningScene = errors.New("a running scene is required")

	// ErrEmptyStack is returned when popping a stack whose last scene was
	// already popped. The end of the program was signaled by that pop.
	ErrEmptyStack = errors.New("scene stack is empty")

	// ErrReentrantCommit is returned when Commit is called from a lifecycle
	// hook of a commit in progress.
	ErrReentrantCommit = errors.New("commit already in progress")
)

// Stack holds the scenes, the running scene and the pending scene.
type Stack struct {
	scenes      []scene.Scene
	running     scene.Scene
	pending     scene.Scene
	sendCleanup bool
	phase       state.Phase
	log         zerolog.Logger
}

// New creates an empty stack with the given capacity hint.
func New(capacity int, log zerolog.Logger) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{
		scenes: make([]scene.Scene, 0, capacity),
		log:    log,
	}
}

// Push appends s and makes it pending. The scene underneath stays on the
// stack, so it is not cleaned up on commit.
func (st *Stack) Push(s scene.Scene) error {
	if s == nil {
		return fmt.Errorf("push: %w", ErrNilScene)
	}
	st.sendCleanup = false
	st.scenes = append(st.scenes, s)
	st.pending = s
	st.log.Debug().Str("scene", s.Name()).Int("depth", len(st.scenes)).Msg("scene pushed")
	return nil
}

// Replace swaps the top of the stack for s. On an empty stack it behaves
// as Push. Replacing with the scene that is already pending is a no-op.
// A different pending scene is discarded and cleaned up.
func (st *Stack) Replace(s scene.Scene) error {
	if s == nil {
		return fmt.Errorf("replace: %w", ErrNilScene)
	}
	if len(st.scenes) == 0 {
		return st.Push(s)
	}
	if st.running == nil {
		return fmt.Errorf("replace: %w", ErrNoRunningScene)
	}
	if s == st.pending {
		return nil
	}

	if st.pending != nil {
		discarded := st.pending
		if discarded.IsRunning() {
			discarded.OnExit()
		}
		discarded.Cleanup()
		st.pending = nil
		st.log.Debug().Str("scene", discarded.Name()).Msg("pending scene discarded")
	}

	st.sendCleanup = true
	st.scenes[len(st.scenes)-1] = s
	st.pending = s
	st.log.Debug().Str("scene", s.Name()).Int("depth", len(st.scenes)).Msg("scene replaced")
	return nil
}

// Pop removes the top scene. It returns ended = true when the stack became
// empty; the caller must then end the program instead of committing. Popping
// the empty stack again returns ErrEmptyStack, so the end is signaled once.
func (st *Stack) Pop() (ended bool, err error) {
	if st.running == nil {
		return false, fmt.Errorf("pop: %w", ErrNoRunningScene)
	}
	if len(st.scenes) == 0 {
		return false, fmt.Errorf("pop: %w", ErrEmptyStack)
	}

	st.scenes[len(st.scenes)-1] = nil
	st.scenes = st.scenes[:len(st.scenes)-1]

	if len(st.scenes) == 0 {
		st.log.Debug().Msg("scene stack emptied")
		return true, nil
	}

	st.sendCleanup = true
	st.pending = st.Top()
	st.log.Debug().Str("scene", st.pending.Name()).Int("depth", len(st.scenes)).Msg("scene popped")
	return false, nil
}

// PopToLevel pops scenes until the stack holds level scenes. Level 0 ends
// the program (ended = true). A level at or above the current depth is a
// no-op. Popped scenes other than the running one are exited if running
// and cleaned up immediately; the running scene is exited on commit.
func (st *Stack) PopToLevel(level int) (ended bool, err error) {
	if st.running == nil {
		return false, fmt.Errorf("pop to level %d: %w", level, ErrNoRunningScene)
	}
	if len(st.scenes) == 0 {
		return false, fmt.Errorf("pop to level %d: %w", level, ErrEmptyStack)
	}
	if level == 0 {
		return true, nil
	}
	if level >= len(st.scenes) || level < 0 {
		return false, nil
	}

	if st.Top() == st.running {
		st.scenes[len(st.scenes)-1] = nil
		st.scenes = st.scenes[:len(st.scenes)-1]
	}

	for len(st.scenes) > level {
		current := st.Top()
		if current.IsRunning() {
			current.OnExit()
		}
		current.Cleanup()
		st.scenes[len(st.scenes)-1] = nil
		st.scenes = st.scenes[:len(st.scenes)-1]
	}

	st.pending = st.Top()
	st.sendCleanup = true
	st.log.Debug().Str("scene", st.pending.Name()).Int("depth", len(st.scenes)).Msg("popped to level")
	return false, nil
}

// Commit promotes the pending scene to running. It returns false when
// nothing was pending.
//
// When neither side is a transition the order is: outgoing
// OnExitTransitionDidStart, OnExit, Cleanup (if flagged), swap, incoming
// OnEnter, OnEnterTransitionDidFinish. An incoming transition suppresses
// the outgoing hooks; an outgoing transition suppresses the incoming hooks.
// A pending scene that is already running is dropped without hooks.
func (st *Stack) Commit() (bool, error) {
	if st.phase == state.PhaseCommitting {
		return false, ErrReentrantCommit
	}
	if st.pending == nil {
		return false, nil
	}

	st.phase = state.PhaseCommitting
	defer func() { st.phase = state.PhaseIdle }()

	outgoing := st.running
	incoming := st.pending
	if incoming == outgoing {
		st.pending = nil
		return false, nil
	}
	outgoingIsTransition := outgoing != nil && outgoing.Kind() == scene.KindTransition
	incomingIsTransition := incoming.Kind() == scene.KindTransition

	if !incomingIsTransition && outgoing != nil {
		outgoing.OnExitTransitionDidStart()
		outgoing.OnExit()
		if st.sendCleanup {
			outgoing.Cleanup()
		}
	}

	st.running = incoming
	st.pending = nil

	if !outgoingIsTransition && st.running != nil {
		st.running.OnEnter()
		st.running.OnEnterTransitionDidFinish()
	}

	st.log.Debug().
		Str("scene", incoming.Name()).
		Bool("cleanup", st.sendCleanup).
		Msg("scene committed")
	return true, nil
}

// Reset exits and cleans the running scene and drops every scene.
func (st *Stack) Reset() {
	if st.running != nil {
		st.running.OnExit()
		st.running.Cleanup()
	}
	st.running = nil
	st.pending = nil
	for i := range st.scenes {
		st.scenes[i] = nil
	}
	st.scenes = st.scenes[:0]
	st.sendCleanup = false
}

// Running returns the running scene.
func (st *Stack) Running() scene.Scene {
	return st.running
}

// Pending returns the scene waiting for the next commit.
func (st *Stack) Pending() scene.Scene {
	return st.pending
}

// Top returns the top of the stack, or nil when empty.
func (st *Stack) Top() scene.Scene {
	if len(st.scenes) == 0 {
		return nil
	}
	return st.scenes[len(st.scenes)-1]
}

// Depth returns the number of scenes on the stack.
func (st *Stack) Depth() int {
	return len(st.scenes)
}

// Scenes returns a copy of the stack, bottom first.
func (st *Stack) Scenes() []scene.Scene {
	return append([]scene.Scene(nil), st.scenes...)
}

// SendCleanupToScene reports whether the outgoing scene is cleaned up on
// the next commit.
func (st *Stack) SendCleanupToScene() bool {
	return st.sendCleanup
}

// Phase returns the commit phase.
func (st *Stack) Phase() state.Phase {
	return st.phase
}

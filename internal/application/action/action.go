// Package action drives time-based actions attached to targets.
//
// The manager is the animation subsystem the director registers with the
// scheduler at system priority, so actions step before any user update.
package action

// Action advances by dt each frame until Done.
type Action interface {
	Step(dt float64)
	Done() bool
}

// Tween calls Apply with linear progress in [0, 1] over Duration seconds.
type Tween struct {
	Duration float64
	Apply    func(t float64)
	elapsed  float64
	done     bool
}

// NewTween creates a tween over duration seconds.
func NewTween(duration float64, apply func(t float64)) *Tween {
	return &Tween{Duration: duration, Apply: apply}
}

// Step advances the tween.
func (tw *Tween) Step(dt float64) {
	if tw.done {
		return
	}
	tw.elapsed += dt
	t := 1.0
	if tw.Duration > 0 {
		t = tw.elapsed / tw.Duration
	}
	if t >= 1 {
		t = 1
		tw.done = true
	}
	tw.Apply(t)
}

// Done reports whether the tween reached t = 1.
func (tw *Tween) Done() bool {
	return tw.done
}

// Delay waits for Duration seconds.
type Delay struct {
	Duration float64
	elapsed  float64
}

// Step advances the delay.
func (d *Delay) Step(dt float64) {
	d.elapsed += dt
}

// Done reports whether the delay elapsed.
func (d *Delay) Done() bool {
	return d.elapsed >= d.Duration
}

// Call runs Fn once on its first step.
type Call struct {
	Fn   func()
	done bool
}

// Step runs Fn if it has not run yet.
func (c *Call) Step(float64) {
	if !c.done {
		c.done = true
		c.Fn()
	}
}

// Done reports whether Fn ran.
func (c *Call) Done() bool {
	return c.done
}

// Sequence runs actions one after another. Leftover time of a finished
// action is not carried into the next one.
type Sequence struct {
	actions []Action
	current int
}

// NewSequence creates a sequence of actions.
func NewSequence(actions ...Action) *Sequence {
	return &Sequence{actions: actions}
}

// Step advances the current action and moves on when it is done.
func (s *Sequence) Step(dt float64) {
	if s.Done() {
		return
	}
	a := s.actions[s.current]
	a.Step(dt)
	for s.current < len(s.actions) && s.actions[s.current].Done() {
		s.current++
		if s.current < len(s.actions) {
			// instant actions (Call) finish within the same frame
			if _, ok := s.actions[s.current].(*Call); ok {
				s.actions[s.current].Step(0)
			}
		}
	}
}

// Done reports whether every action finished.
func (s *Sequence) Done() bool {
	return s.current >= len(s.actions)
}

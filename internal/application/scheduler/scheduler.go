// Package scheduler ticks registered updaters and timers once per frame.
//
// Per-frame updaters run in ascending priority order; updaters with equal
// priority run in registration order. Timers run after all updaters.
package scheduler

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

const (
	// PrioritySystem is reserved for engine subsystems that must run first.
	PrioritySystem = math.MinInt32
	// PriorityNonSystemMin is the lowest priority available to user code.
	PriorityNonSystemMin = PrioritySystem + 1
)

// Updater receives the scaled frame delta.
// Targets must be comparable (pointer receivers).
type Updater interface {
	Update(dt float64) error
}

type updateEntry struct {
	target   Updater
	priority int
	index    int // registration order for stable sort
	paused   bool
	removed  bool
}

type timer struct {
	key      string
	fn       func(dt float64) error
	interval float64
	elapsed  float64
	paused   bool
	removed  bool
}

// Scheduler owns per-frame updaters and keyed interval timers.
type Scheduler struct {
	updates   []*updateEntry
	timers    []*timer
	regCount  int
	timeScale float64
	ticking   bool
	log       zerolog.Logger
}

// New creates an empty scheduler with a time scale of 1.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		updates:   make([]*updateEntry, 0, 16),
		timers:    make([]*timer, 0, 16),
		timeScale: 1,
		log:       log,
	}
}

// ScheduleUpdate registers target to be updated every tick at the given
// priority. Scheduling an already registered target updates its priority
// and paused state.
func (s *Scheduler) ScheduleUpdate(target Updater, priority int, paused bool) {
	if e := s.findUpdate(target); e != nil {
		if e.priority == priority {
			e.paused = paused
			return
		}
		e.removed = true
		s.compact()
	}

	entry := &updateEntry{
		target:   target,
		priority: priority,
		index:    s.regCount,
		paused:   paused,
	}
	s.regCount++

	// Insertion sort: find position and insert
	pos := len(s.updates)
	for i, e := range s.updates {
		if priority < e.priority {
			pos = i
			break
		}
	}

	s.updates = append(s.updates, nil)
	copy(s.updates[pos+1:], s.updates[pos:])
	s.updates[pos] = entry
}

// Unschedule removes the per-frame update of target.
func (s *Scheduler) Unschedule(target Updater) {
	if e := s.findUpdate(target); e != nil {
		e.removed = true
		s.compact()
	}
}

// HasUpdate reports whether target is scheduled.
func (s *Scheduler) HasUpdate(target Updater) bool {
	return s.findUpdate(target) != nil
}

// PauseTarget suspends the update of target without unscheduling it.
func (s *Scheduler) PauseTarget(target Updater) {
	if e := s.findUpdate(target); e != nil {
		e.paused = true
	}
}

// ResumeTarget resumes a paused target.
func (s *Scheduler) ResumeTarget(target Updater) {
	if e := s.findUpdate(target); e != nil {
		e.paused = false
	}
}

// IsTargetPaused reports whether target is scheduled and paused.
func (s *Scheduler) IsTargetPaused(target Updater) bool {
	e := s.findUpdate(target)
	return e != nil && e.paused
}

// Schedule runs fn every interval seconds under key. An interval of 0 runs
// fn every tick. Rescheduling an existing key replaces its callback and
// interval.
func (s *Scheduler) Schedule(key string, interval float64, fn func(dt float64) error) {
	if t := s.findTimer(key); t != nil {
		t.fn = fn
		t.interval = interval
		return
	}
	s.timers = append(s.timers, &timer{key: key, fn: fn, interval: interval})
}

// UnscheduleKey removes the timer registered under key.
func (s *Scheduler) UnscheduleKey(key string) {
	if t := s.findTimer(key); t != nil {
		t.removed = true
		s.compact()
	}
}

// IsScheduled reports whether a timer exists under key.
func (s *Scheduler) IsScheduled(key string) bool {
	return s.findTimer(key) != nil
}

// UnscheduleAll removes every updater and timer, system ones included.
func (s *Scheduler) UnscheduleAll() {
	for _, e := range s.updates {
		e.removed = true
	}
	for _, t := range s.timers {
		t.removed = true
	}
	s.compact()
}

// SetTimeScale scales every delta passed to updaters and timers.
func (s *Scheduler) SetTimeScale(scale float64) {
	s.timeScale = scale
}

// TimeScale returns the current delta multiplier.
func (s *Scheduler) TimeScale() float64 {
	return s.timeScale
}

// Len returns the number of scheduled updaters.
func (s *Scheduler) Len() int {
	return len(s.updates)
}

// Tick runs every active updater, then every due timer. Entries added
// during a tick run from the next tick on; entries removed during a tick
// are skipped immediately. Errors are collected and returned joined.
func (s *Scheduler) Tick(dt float64) error {
	dt *= s.timeScale

	s.ticking = true
	var errs []error

	updates := append([]*updateEntry(nil), s.updates...)
	for _, e := range updates {
		if e.removed || e.paused {
			continue
		}
		if err := e.target.Update(dt); err != nil {
			errs = append(errs, fmt.Errorf("update %T: %w", e.target, err))
		}
	}

	timers := append([]*timer(nil), s.timers...)
	for _, t := range timers {
		if t.removed || t.paused {
			continue
		}
		t.elapsed += dt
		if t.interval > 0 && t.elapsed < t.interval {
			continue
		}
		elapsed := t.elapsed
		t.elapsed = 0
		if err := t.fn(elapsed); err != nil {
			errs = append(errs, fmt.Errorf("timer %s: %w", t.key, err))
		}
	}

	s.ticking = false
	s.compact()

	if len(errs) > 0 {
		s.log.Debug().Int("errors", len(errs)).Msg("scheduler tick failed")
	}
	return errors.Join(errs...)
}

func (s *Scheduler) findUpdate(target Updater) *updateEntry {
	for _, e := range s.updates {
		if !e.removed && e.target == target {
			return e
		}
	}
	return nil
}

func (s *Scheduler) findTimer(key string) *timer {
	for _, t := range s.timers {
		if !t.removed && t.key == key {
			return t
		}
	}
	return nil
}

// compact drops removed entries unless a tick is iterating over them.
func (s *Scheduler) compact() {
	if s.ticking {
		return
	}
	updates := s.updates[:0]
	for _, e := range s.updates {
		if !e.removed {
			updates = append(updates, e)
		}
	}
	for i := len(updates); i < len(s.updates); i++ {
		s.updates[i] = nil
	}
	s.updates = updates

	timers := s.timers[:0]
	for _, t := range s.timers {
		if !t.removed {
			timers = append(timers, t)
		}
	}
	for i := len(timers); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = timers
}

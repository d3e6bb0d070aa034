package action

import "github.com/rs/zerolog"

type running struct {
	target  any
	action  Action
	removed bool
}

// Manager steps actions every frame. Targets must be comparable.
type Manager struct {
	actions  []*running
	updating bool
	log      zerolog.Logger
}

// NewManager creates an empty manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		actions: make([]*running, 0, 32),
		log:     log,
	}
}

// Run attaches a to target. The action starts stepping on the next update.
func (m *Manager) Run(target any, a Action) {
	m.actions = append(m.actions, &running{target: target, action: a})
}

// Update steps every action and drops the finished ones.
func (m *Manager) Update(dt float64) error {
	m.updating = true
	n := len(m.actions)
	for i := 0; i < n; i++ {
		r := m.actions[i]
		if r.removed {
			continue
		}
		r.action.Step(dt)
		if r.action.Done() {
			r.removed = true
		}
	}
	m.updating = false
	m.compact()
	return nil
}

// RemoveAllFor stops every action attached to target.
func (m *Manager) RemoveAllFor(target any) {
	for _, r := range m.actions {
		if r.target == target {
			r.removed = true
		}
	}
	m.compact()
}

// RemoveAll stops every action.
func (m *Manager) RemoveAll() {
	for _, r := range m.actions {
		r.removed = true
	}
	m.compact()
	m.log.Debug().Msg("all actions removed")
}

// Len returns the number of running actions.
func (m *Manager) Len() int {
	return len(m.actions)
}

// LenFor returns the number of running actions attached to target.
func (m *Manager) LenFor(target any) int {
	count := 0
	for _, r := range m.actions {
		if !r.removed && r.target == target {
			count++
		}
	}
	return count
}

func (m *Manager) compact() {
	if m.updating {
		return
	}
	kept := m.actions[:0]
	for _, r := range m.actions {
		if !r.removed {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(m.actions); i++ {
		m.actions[i] = nil
	}
	m.actions = kept
}

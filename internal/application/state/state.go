package state

// RunState represents the run/pause state of the animation driver
type RunState int

const (
	StateStopped RunState = iota
	StateRunning
	StatePaused
)

// String returns the string representation of the run state
func (s RunState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Phase is the scene stack commit phase
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCommitting
)

// String returns the string representation of the commit phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseCommitting:
		return "Committing"
	default:
		return "Unknown"
	}
}

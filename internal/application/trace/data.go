// Package trace records per-frame timing of the director to JSON and plays
// it back as a deterministic clock.
package trace

// Version of the trace file format
const Version = "1.0"

// Frame records a single draw cycle
type Frame struct {
	F  uint64  `json:"f"`           // Frame number
	DT float64 `json:"dt"`          // Delta passed to the scheduler
	S  string  `json:"s,omitempty"` // Running scene
	P  bool    `json:"p,omitempty"` // Paused
}

// Data contains a recorded session
type Data struct {
	Version   string  `json:"version"`
	StartTime string  `json:"startTime"`
	FPS       float64 `json:"fps"`
	Frames    []Frame `json:"frames"`
}

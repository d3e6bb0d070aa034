package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrEmpty is returned when saving a trace without frames.
var ErrEmpty = errors.New("no frames to save")

// Recorder collects frames while recording is active
type Recorder struct {
	data      Data
	recording bool
}

// NewRecorder creates a recorder that is already recording
func NewRecorder(fps float64) *Recorder {
	return &Recorder{
		data: Data{
			Version:   Version,
			StartTime: time.Now().Format(time.RFC3339),
			FPS:       fps,
			Frames:    make([]Frame, 0, 3600), // ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordFrame appends f unless recording was stopped
func (r *Recorder) RecordFrame(f Frame) {
	if !r.recording {
		return
	}
	r.data.Frames = append(r.data.Frames, f)
}

// Save writes the trace to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrEmpty
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recorded session
func (r *Recorder) Data() Data {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("trace_%s.json", time.Now().Format("20060102_150405"))
}

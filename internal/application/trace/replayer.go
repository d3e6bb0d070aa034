package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Replayer plays recorded deltas back. It implements clock.DeltaSource, so
// a clock built on it reports the recorded deltas instead of wall time.
type Replayer struct {
	data    Data
	origin  time.Time
	elapsed time.Duration
	frame   int
}

// NewReplayer creates a new replayer from trace data
func NewReplayer(data Data) *Replayer {
	return &Replayer{
		data:   data,
		origin: time.Unix(0, 0),
	}
}

// Load loads trace data from a file
func Load(filename string) (*Data, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data Data
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}

	return &data, nil
}

// Now returns the replayed time: the sum of the deltas consumed so far.
func (r *Replayer) Now() time.Time {
	return r.origin.Add(r.elapsed)
}

// NextDelta returns the delta of the current frame and advances
func (r *Replayer) NextDelta() (float64, bool) {
	if r.frame >= len(r.data.Frames) {
		return 0, false
	}
	dt := r.data.Frames[r.frame].DT
	r.frame++
	r.elapsed += time.Duration(dt * float64(time.Second))
	return dt, true
}

// Done reports whether every frame was consumed
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Reset rewinds to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
	r.elapsed = 0
}

// Package capture records an entity's transform at a fixed tick.
package capture

import (
	"context"

	"github.com/rcliao/ghost-replay/internal/model"
)

// Saver persists a finished recording. *gate.Gate satisfies it.
type Saver interface {
	TrySave(ctx context.Context, t model.Trajectory) (bool, error)
}

// Recorder appends one sample per tick while recording. It is driven from a
// single loop and is not safe for concurrent use.
type Recorder struct {
	id        string
	precision int
	saver     Saver

	recording bool
	builder   *model.Builder
}

// NewRecorder returns an idle recorder for id.
func NewRecorder(id string, precision int, saver Saver) *Recorder {
	return &Recorder{
		id:        id,
		precision: precision,
		saver:     saver,
		builder:   model.NewBuilder(id, precision),
	}
}

// Start begins a new capture, discarding anything recorded so far.
func (r *Recorder) Start() {
	r.builder = model.NewBuilder(r.id, r.precision)
	r.recording = true
}

// Pause stops appending until Resume.
func (r *Recorder) Pause() { r.recording = false }

// Resume continues a paused capture.
func (r *Recorder) Resume() { r.recording = true }

// Recording reports whether ticks are currently captured.
func (r *Recorder) Recording() bool { return r.recording }

// Tick captures state and advances the clock by dt. It is a no-op while
// paused or stopped.
func (r *Recorder) Tick(state model.Sample, dt float64) {
	if !r.recording {
		return
	}
	r.builder.Append(state, dt)
}

// Snapshot returns a frozen copy of the capture so far.
func (r *Recorder) Snapshot() model.Trajectory {
	return r.builder.Build()
}

// Stop ends the capture. With save set, the recording is offered to the
// saver, which keeps it only if it beats the stored time.
func (r *Recorder) Stop(ctx context.Context, save bool) (bool, error) {
	r.recording = false
	if !save || r.saver == nil {
		return false, nil
	}
	return r.saver.TrySave(ctx, r.builder.Build())
}

package model

// Builder accumulates samples during capture. Trajectories built from it are
// independent copies, so the accumulator can keep growing after Build.
type Builder struct {
	id        string
	precision int
	totalTime float64
	samples   []Sample
}

// NewBuilder returns an empty builder. A negative precision disables rounding.
func NewBuilder(id string, precision int) *Builder {
	return &Builder{id: id, precision: precision}
}

// Append rounds s once and adds it, advancing the total time by dt.
func (b *Builder) Append(s Sample, dt float64) {
	b.samples = append(b.samples, Sample{
		Position: RoundVec3(s.Position, b.precision),
		Rotation: RoundQuat(s.Rotation, b.precision),
		Scale:    RoundVec3(s.Scale, b.precision),
	})
	b.totalTime += dt
}

// Len returns the number of samples appended so far.
func (b *Builder) Len() int {
	return len(b.samples)
}

// Build returns a frozen snapshot of the capture.
func (b *Builder) Build() Trajectory {
	t := Trajectory{ID: b.id, TotalTime: b.totalTime}
	if len(b.samples) > 0 {
		t.Samples = make([]Sample, len(b.samples))
		copy(t.Samples, b.samples)
	}
	return t
}

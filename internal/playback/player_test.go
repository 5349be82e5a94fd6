package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/ghost-replay/internal/model"
)

func recording(n int) model.Trajectory {
	t := model.Trajectory{ID: "ghost", TotalTime: float64(n) * 0.02}
	for i := 0; i < n; i++ {
		t.Samples = append(t.Samples, model.Sample{Position: model.Vec3{X: float64(i)}})
	}
	return t
}

func TestPlayerStepsInOrder(t *testing.T) {
	p := NewPlayer(recording(4))

	var seen []float64
	apply := func(s model.Sample) { seen = append(seen, s.Position.X) }

	assert.False(t, p.Tick(apply), "stopped player should not advance")
	p.Start()
	for p.Tick(apply) {
	}

	// Stops when index+1 == len, holding the last applied frame.
	assert.Equal(t, []float64{0, 1, 2}, seen)
	assert.Equal(t, 3, p.Index())
	assert.True(t, p.Done())
}

func TestPlayerPauseResume(t *testing.T) {
	p := NewPlayer(recording(5))
	var n int
	apply := func(model.Sample) { n++ }

	p.Start()
	p.Tick(apply)
	p.Pause()
	assert.False(t, p.Tick(apply))
	assert.Equal(t, 1, p.Index())
	p.Resume()
	assert.True(t, p.Tick(apply))
	assert.Equal(t, 2, n)
}

func TestPlayerRestart(t *testing.T) {
	p := NewPlayer(recording(3))
	p.Start()
	for p.Tick(func(model.Sample) {}) {
	}
	p.Start()
	assert.Equal(t, 0, p.Index())
	assert.False(t, p.Done())
}

func TestPlayerEmpty(t *testing.T) {
	for _, n := range []int{0, 1} {
		p := NewPlayer(recording(n))
		p.Start()
		assert.False(t, p.Tick(func(model.Sample) { t.Fatal("nothing to apply") }))
		assert.True(t, p.Done())
	}
}

func TestPlayerPlaying(t *testing.T) {
	p := NewPlayer(recording(3))
	assert.False(t, p.Playing())

	p.Start()
	assert.True(t, p.Playing())
	p.Pause()
	assert.False(t, p.Playing())
	p.Resume()
	assert.True(t, p.Playing())
}

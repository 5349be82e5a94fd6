// Package playback steps a loaded recording one sample per tick.
package playback

import "github.com/rcliao/ghost-replay/internal/model"

// Player drives a ghost from a recording. It is not safe for concurrent use.
type Player struct {
	t       model.Trajectory
	index   int
	playing bool
}

// NewPlayer returns a stopped player for t.
func NewPlayer(t model.Trajectory) *Player {
	return &Player{t: t}
}

// Start plays from the first sample, restarting if already playing.
func (p *Player) Start() {
	p.index = 0
	p.playing = true
}

// Pause holds the current frame until Resume.
func (p *Player) Pause() { p.playing = false }

// Resume continues a paused replay.
func (p *Player) Resume() { p.playing = true }

// Index returns the next sample to apply.
func (p *Player) Index() int { return p.index }

// Playing reports whether Tick will advance.
func (p *Player) Playing() bool { return p.playing }

// Done reports whether the replay has reached its final frame.
func (p *Player) Done() bool {
	return p.index+1 >= len(p.t.Samples)
}

// Tick applies the current sample and advances. It returns false, applying
// nothing, while paused or once index+1 reaches the sample count.
func (p *Player) Tick(apply func(model.Sample)) bool {
	if !p.playing || p.Done() {
		return false
	}
	apply(p.t.Samples[p.index])
	p.index++
	return true
}

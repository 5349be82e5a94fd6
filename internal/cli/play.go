package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/rcliao/ghost-replay/internal/playback"
	"github.com/rcliao/ghost-replay/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Replay a stored recording frame by frame",
		Long:  "Replay a stored recording, printing the transform applied on each tick. With --realtime, frames are paced at the configured tick rate.",
		Args:  cobra.ExactArgs(1),
		Run:   runPlay,
	}

	cmd.Flags().Bool("realtime", false, "Pace frames at the tick rate")

	RootCmd.AddCommand(cmd)
}

// frame is one applied sample in play output.
type frame struct {
	Tick int `json:"tick"`
	model.Sample
}

func runPlay(cmd *cobra.Command, args []string) {
	realtime, _ := cmd.Flags().GetBool("realtime")

	g, s, cfg := openGate()
	defer s.Close()

	t, ok, err := g.Load(cmd.Context(), args[0])
	if err != nil {
		exitErr("play", err)
	}
	if !ok {
		exitErr("play", fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
	}

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(cfg.TickSeconds() * float64(time.Second)))
		defer ticker.Stop()
	}

	n := replay(cmd.OutOrStdout(), playback.NewPlayer(t), func() bool {
		if ticker == nil {
			return true
		}
		select {
		case <-ticker.C:
			return true
		case <-cmd.Context().Done():
			return false
		}
	})

	if formatFlag == "text" {
		fmt.Fprintf(cmd.ErrOrStderr(), "played %d of %d frames\n", n, t.Len())
	}
}

// replay steps p to the end, writing each applied frame. wait is called
// before every tick and stops the replay when it returns false; pausing p
// also ends it.
func replay(w io.Writer, p *playback.Player, wait func() bool) int {
	enc := json.NewEncoder(w)
	p.Start()
	n := 0
	for p.Playing() && !p.Done() && wait() {
		tick := p.Index()
		applied := p.Tick(func(s model.Sample) {
			if formatFlag == "text" {
				fmt.Fprintf(w, "%d\t%v %v %v\t%v %v %v %v\t%v %v %v\n", tick,
					s.Position.X, s.Position.Y, s.Position.Z,
					s.Rotation.X, s.Rotation.Y, s.Rotation.Z, s.Rotation.W,
					s.Scale.X, s.Scale.Y, s.Scale.Z)
				return
			}
			enc.Encode(frame{Tick: tick, Sample: s})
		})
		if applied {
			n++
		}
	}
	return n
}

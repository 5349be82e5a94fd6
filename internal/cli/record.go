package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcliao/ghost-replay/internal/capture"
	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Capture a recording from raw transform states on stdin",
		Long: `Capture a recording from stdin, one tick per line. Each line holds ten
whitespace-separated numbers: px py pz rx ry rz rw sx sy sz. Blank lines and
lines starting with # are ignored. The finished recording is kept only if it
beats the stored time.`,
		Run: runRecord,
	}

	cmd.Flags().String("id", "", "Recording id (required)")
	cmd.Flags().Float64("dt", 0, "Seconds per tick (default: 1/tick_rate from config)")
	cmd.Flags().Bool("dry-run", false, "Print the encoded recording instead of saving it")

	cmd.MarkFlagRequired("id")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	dt, _ := cmd.Flags().GetFloat64("dt")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	g, s, cfg := openGate()
	defer s.Close()

	if dt <= 0 {
		dt = cfg.TickSeconds()
	}

	rec := capture.NewRecorder(id, cfg.Digits(), g)
	rec.Start()
	if err := feedStates(cmd.InOrStdin(), dt, rec.Tick); err != nil {
		exitErr("record", err)
	}

	snap := rec.Snapshot()
	if dryRun {
		rec.Stop(cmd.Context(), false)
		printRecording(cmd.OutOrStdout(), snap)
		return
	}

	accepted, err := rec.Stop(cmd.Context(), true)
	if err != nil {
		exitErr("save", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"time":%v,"samples":%d,"accepted":%t}`+"\n",
		id, snap.TotalTime, snap.Len(), accepted)
}

// feedStates parses one state per line and calls tick for each.
func feedStates(r io.Reader, dt float64, tick func(model.Sample, float64)) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		st, err := parseState(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		tick(st, dt)
	}
	return sc.Err()
}

func parseState(text string) (model.Sample, error) {
	fields := strings.Fields(text)
	if len(fields) != 10 {
		return model.Sample{}, fmt.Errorf("want 10 numbers, got %d", len(fields))
	}
	var v [10]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Sample{}, err
		}
		v[i] = n
	}
	return model.Sample{
		Position: model.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Rotation: model.Quat{X: v[3], Y: v[4], Z: v[5], W: v[6]},
		Scale:    model.Vec3{X: v[7], Y: v[8], Z: v[9]},
	}, nil
}

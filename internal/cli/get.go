package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcliao/ghost-replay/internal/codec"
	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/rcliao/ghost-replay/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored recording",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)

	peek := &cobra.Command{
		Use:   "peek <id>",
		Short: "Print the stored best time without decoding samples",
		Args:  cobra.ExactArgs(1),
		Run:   runPeek,
	}

	RootCmd.AddCommand(peek)
}

func runGet(cmd *cobra.Command, args []string) {
	g, s, _ := openGate()
	defer s.Close()

	t, ok, err := g.Load(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}
	if !ok {
		exitErr("get", fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
	}

	printRecording(cmd.OutOrStdout(), t)
}

// printRecording writes t in the ghost text format or as indented JSON.
func printRecording(w io.Writer, t model.Trajectory) {
	if formatFlag == "text" {
		fmt.Fprintln(w, codec.Encode(t))
		return
	}
	b, _ := json.MarshalIndent(t, "", "  ")
	fmt.Fprintln(w, string(b))
}

func runPeek(cmd *cobra.Command, args []string) {
	g, s, _ := openGate()
	defer s.Close()

	total, ok := g.PeekStoredTime(cmd.Context(), args[0])
	corrupt := false
	if !ok {
		// Peek folds every failure into absent; Exists tells a corrupt blob apart.
		if exists, err := s.Exists(cmd.Context(), args[0]); err == nil {
			corrupt = exists
		}
	}

	w := cmd.OutOrStdout()
	if formatFlag == "text" {
		switch {
		case ok:
			fmt.Fprintln(w, total)
		case corrupt:
			fmt.Fprintln(w, "corrupt")
		default:
			fmt.Fprintln(w, "absent")
		}
		return
	}
	switch {
	case ok:
		fmt.Fprintf(w, `{"id":%q,"found":true,"time":%v}`+"\n", args[0], total)
	case corrupt:
		fmt.Fprintf(w, `{"id":%q,"found":true,"corrupt":true}`+"\n", args[0])
	default:
		fmt.Fprintf(w, `{"id":%q,"found":false}`+"\n", args[0])
	}
}

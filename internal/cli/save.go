package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/ghost-replay/internal/codec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Offer an encoded recording to the best-time store",
		Long:  "Save a recording in the ghost text format. Input can be a file argument or piped via stdin. The recording is kept only if it is faster than the stored one.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSave,
	}

	cmd.Flags().String("id", "", "Store under this id instead of the one in the recording")

	RootCmd.AddCommand(cmd)
}

func runSave(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("read input", err)
	}
	if strings.TrimSpace(text) == "" {
		exitErr("save", fmt.Errorf("recording is required (file arg or stdin)"))
	}

	t, err := codec.Decode(strings.TrimRight(text, "\r\n"))
	if err != nil {
		exitErr("decode", err)
	}
	if id != "" {
		t.ID = id
	}

	g, s, _ := openGate()
	defer s.Close()

	accepted, err := g.TrySave(cmd.Context(), t)
	if err != nil {
		exitErr("save", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"time":%v,"accepted":%t}`+"\n", t.ID, t.TotalTime, accepted)
}

// readInput returns the named file, or stdin when piped.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		return string(b), err
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, _ := f.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", nil
		}
	}
	b, err := io.ReadAll(in)
	return string(b), err
}

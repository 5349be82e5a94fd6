package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import recordings from JSON",
		Long:  "Import recordings from JSON (file or stdin). Expects the format produced by export. Each recording goes through the best-time check.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := readInput(cmd, args)
	if err != nil {
		exitErr("read input", err)
	}

	var recordings []model.Trajectory
	if err := json.Unmarshal([]byte(data), &recordings); err != nil {
		exitErr("parse json", err)
	}

	g, s, _ := openGate()
	defer s.Close()

	accepted := 0
	for _, t := range recordings {
		ok, err := g.TrySave(cmd.Context(), t)
		if err != nil {
			exitErr("import "+t.ID, err)
		}
		if ok {
			accepted++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"read":%d,"accepted":%d}`+"\n", len(recordings), accepted)
}

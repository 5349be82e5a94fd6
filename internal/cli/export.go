package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export recordings as JSON",
		Long:  "Export stored recordings as a JSON array. With no ids, every recording is exported; corrupt ones are skipped with a warning.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	g, s, _ := openGate()
	defer s.Close()

	keys := args
	if len(keys) == 0 {
		var err error
		keys, err = s.Keys(cmd.Context())
		if err != nil {
			exitErr("export", err)
		}
	}

	recordings := []model.Trajectory{}
	for _, k := range keys {
		t, ok, err := g.Load(cmd.Context(), k)
		if err != nil {
			slog.Warn("skipping recording", "key", k, "error", err)
			continue
		}
		if !ok {
			slog.Warn("skipping missing recording", "key", k)
			continue
		}
		recordings = append(recordings, t)
	}

	b, _ := json.MarshalIndent(recordings, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

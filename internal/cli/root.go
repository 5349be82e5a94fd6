// Package cli implements the ghost-replay CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/ghost-replay/internal/config"
	"github.com/rcliao/ghost-replay/internal/gate"
	"github.com/rcliao/ghost-replay/internal/store"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	backendFlag  string
	locationFlag string
	formatFlag   string
	verbose      bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "ghost-replay",
	Short: "Record, keep and replay best-time ghosts",
	Long:  "Stores the fastest recorded trajectory per course and replays it frame by frame. File or SQLite backed, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $GHOST_REPLAY_CONFIG or ~/.ghost-replay/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Storage backend: file or sqlite (overrides config)")
	RootCmd.PersistentFlags().StringVarP(&locationFlag, "store", "s", "", "Recording directory or database path (overrides config)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if locationFlag != "" {
		if cfg.Backend == store.BackendSQLite {
			cfg.DB = locationFlag
		} else {
			cfg.Dir = locationFlag
		}
	}
	return cfg, cfg.Validate()
}

func openGate() (*gate.Gate, store.BlobStore, config.Config) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := cfg.OpenStore()
	if err != nil {
		exitErr("open store", err)
	}
	return gate.New(s, slog.Default()), s, cfg
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

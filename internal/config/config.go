// Package config loads ghost-replay settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/rcliao/ghost-replay/internal/store"
)

// DefaultTickRate matches a 0.02s fixed physics step.
const DefaultTickRate = 50

// Config holds storage and capture settings.
type Config struct {
	Backend   string `yaml:"backend"`
	Dir       string `yaml:"dir"`
	DB        string `yaml:"db"`
	Precision *int   `yaml:"precision,omitempty"`
	TickRate  int    `yaml:"tick_rate"`
}

// HomeDir returns ~/.ghost-replay.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ghost-replay")
}

// Default returns the built-in settings.
func Default() Config {
	p := model.DefaultPrecision
	return Config{
		Backend:   store.BackendFile,
		Dir:       filepath.Join(HomeDir(), "ghostrecordings"),
		DB:        filepath.Join(HomeDir(), "ghost.db"),
		Precision: &p,
		TickRate:  DefaultTickRate,
	}
}

// DefaultPath returns the config file path: $GHOST_REPLAY_CONFIG or
// ~/.ghost-replay/config.yaml.
func DefaultPath() string {
	if env := os.Getenv("GHOST_REPLAY_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if env := os.Getenv("GHOST_REPLAY_BACKEND"); env != "" {
		cfg.Backend = env
	}
	if env := os.Getenv("GHOST_REPLAY_DIR"); env != "" {
		cfg.Dir = env
	}
	if env := os.Getenv("GHOST_REPLAY_DB"); env != "" {
		cfg.DB = env
	}

	return cfg, cfg.Validate()
}

// Validate checks backend, precision and tick rate.
func (c Config) Validate() error {
	if !store.ValidBackends[c.Backend] {
		return fmt.Errorf("invalid backend %q (valid: file, sqlite)", c.Backend)
	}
	if c.Precision != nil && (*c.Precision < 0 || *c.Precision > 15) {
		return fmt.Errorf("invalid precision %d (0-15)", *c.Precision)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("invalid tick_rate %d", c.TickRate)
	}
	return nil
}

// Digits returns the rounding precision.
func (c Config) Digits() int {
	if c.Precision == nil {
		return model.DefaultPrecision
	}
	return *c.Precision
}

// TickSeconds returns the fixed step in seconds.
func (c Config) TickSeconds() float64 {
	return 1 / float64(c.TickRate)
}

// Location returns the directory or database path for the backend.
func (c Config) Location() string {
	if c.Backend == store.BackendSQLite {
		return c.DB
	}
	return c.Dir
}

// OpenStore opens the configured backend.
func (c Config) OpenStore() (store.BlobStore, error) {
	return store.Open(c.Backend, c.Location())
}

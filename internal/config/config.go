// Package config loads the mythos runtime configuration from an optional
// YAML file and MYTHOS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "MYTHOS_CONFIG"

// DefaultDataDirName is the directory under the user's home used when
// storage.data_dir is not set.
const DefaultDataDirName = ".mythos"

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Drift   DriftConfig   `yaml:"drift"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig controls where state is persisted.
type StorageConfig struct {
	DataDir  string `yaml:"data_dir"  env:"MYTHOS_DATA_DIR"`
	InMemory bool   `yaml:"in_memory" env:"MYTHOS_IN_MEMORY" env-default:"false"`
}

// DriftConfig controls the psychic state random walk. Drift runs unless
// disabled.
type DriftConfig struct {
	Disabled bool          `yaml:"disabled" env:"MYTHOS_DRIFT_DISABLED"`
	Interval time.Duration `yaml:"interval" env:"MYTHOS_DRIFT_INTERVAL" env-default:"3s"`
}

// Enabled reports whether the drift task should run.
func (d DriftConfig) Enabled() bool { return !d.Disabled }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"MYTHOS_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"MYTHOS_LOG_FORMAT" env-default:"json"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// Load reads configuration. Priority: ENV > YAML > defaults.
// path, or MYTHOS_CONFIG when path is empty, names the YAML file; an
// explicit path that does not exist is an error. Without a path only the
// environment and defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	dir, err := resolveDataDir(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Storage.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// resolveDataDir expands a leading ~ and fills in ~/.mythos when dir is empty.
func resolveDataDir(dir string) (string, error) {
	if dir != "" && dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	switch {
	case dir == "":
		return filepath.Join(home, DefaultDataDirName), nil
	case dir == "~":
		return home, nil
	default:
		return filepath.Join(home, dir[2:]), nil
	}
}

// Validate checks value ranges and enums. Load calls it automatically.
func (c *Config) Validate() error {
	if !c.Storage.InMemory && c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required unless storage.in_memory is set")
	}
	if c.Drift.Enabled() && c.Drift.Interval <= 0 {
		return fmt.Errorf("drift.interval must be > 0 (got %s)", c.Drift.Interval)
	}
	if !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(validLevels, ", "), c.Log.Level)
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(validFormats, ", "), c.Log.Format)
	}
	return nil
}

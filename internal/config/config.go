// Package config resolves floorctl settings from an optional YAML file and
// environment overrides. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"floorctl/internal/catalog/backend"
)

const (
	// ConfigEnv points at an alternate config file.
	ConfigEnv = "FLOORCTL_CONFIG"
	// DataDirEnv overrides the data directory (for testing and portable installs).
	DataDirEnv = "FLOORCTL_DATA_DIR"
	// DefaultBase is the per-user directory under $HOME.
	DefaultBase = ".floorctl"
)

// Config holds resolved settings.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Backend string `yaml:"backend"`
	LogFile string `yaml:"log_file"`
	Verbose bool   `yaml:"verbose"`
}

// BaseDir returns ~/.floorctl.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultBase), nil
}

// DefaultPath returns $FLOORCTL_CONFIG, or ~/.floorctl/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads path (DefaultPath when empty). A missing file yields defaults.
// FLOORCTL_DATA_DIR wins over the file's data_dir.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

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

	if dir := os.Getenv(DataDirEnv); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.fillDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() error {
	if c.Backend == "" {
		c.Backend = backend.Bolt
	}
	if c.DataDir != "" && c.LogFile != "" {
		return nil
	}
	base, err := BaseDir()
	if err != nil {
		return err
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(base, "data")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(base, "floorctl.log")
	}
	return nil
}

// Validate checks values that flags may have overridden.
func (c Config) Validate() error {
	switch c.Backend {
	case backend.Bolt, backend.SQLite:
	default:
		return fmt.Errorf("backend %q: want %q or %q", c.Backend, backend.Bolt, backend.SQLite)
	}
	if c.DataDir == "" {
		return errors.New("data dir is empty")
	}
	return nil
}

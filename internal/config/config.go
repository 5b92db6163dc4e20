// Package config loads the mcpgit configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ScanConfig bounds repository discovery.
type ScanConfig struct {
	MaxRepos int `toml:"max_repos"`
	MaxDepth int `toml:"max_depth"`
}

// TimeoutConfig overrides subprocess timeouts, in seconds.
type TimeoutConfig struct {
	FastSeconds    int `toml:"fast_seconds"`
	OpSeconds      int `toml:"op_seconds"`
	NetworkSeconds int `toml:"network_seconds"`
}

// Config holds the mcpgit configuration.
type Config struct {
	// AllowedRoots are the directories repository paths may resolve
	// into. When empty, the working directory at startup is used.
	AllowedRoots []string `toml:"allowed_roots"`
	// GitPath overrides binary resolution, like MCPGIT_GIT_PATH.
	GitPath string `toml:"git_path"`
	// TasksFile is the flat-file task store location.
	TasksFile string        `toml:"tasks_file"`
	Scan      ScanConfig    `toml:"scan"`
	Timeouts  TimeoutConfig `toml:"timeouts"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MaxRepos: 100,
			MaxDepth: 5,
		},
	}
}

// FastTimeout returns the configured fast timeout, or fallback when unset.
func (c *Config) FastTimeout(fallback time.Duration) time.Duration {
	return secondsOr(c.Timeouts.FastSeconds, fallback)
}

// OpTimeout returns the configured operation timeout, or fallback.
func (c *Config) OpTimeout(fallback time.Duration) time.Duration {
	return secondsOr(c.Timeouts.OpSeconds, fallback)
}

// NetworkTimeout returns the configured network timeout, or fallback.
func (c *Config) NetworkTimeout(fallback time.Duration) time.Duration {
	return secondsOr(c.Timeouts.NetworkSeconds, fallback)
}

func secondsOr(s int, fallback time.Duration) time.Duration {
	if s <= 0 {
		return fallback
	}
	return time.Duration(s) * time.Second
}

// TasksPath returns the task store path, defaulting under the user config
// dir.
func (c *Config) TasksPath() (string, error) {
	if c.TasksFile != "" {
		return expandPath(c.TasksFile)
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasks.json"), nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mcpgit"), nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, returning defaults when it does not exist.
// Allowed roots are expanded and must be absolute after expansion.
func Load() (Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, root := range cfg.AllowedRoots {
		expanded, err := expandPath(root)
		if err != nil {
			return Default(), err
		}
		if !filepath.IsAbs(expanded) {
			return Default(), fmt.Errorf("allowed_roots entry %q must be absolute or start with ~", root)
		}
		cfg.AllowedRoots[i] = expanded
	}
	return cfg, nil
}

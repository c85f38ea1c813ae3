// Package config loads habitrack runtime configuration from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"` // Empty means a file named for the backend inside DataDir
}

// JournalConfig controls the JSONL mutation journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Config holds all runtime configuration for habitrack.
// Values are populated from .habitrack.yaml, HABITRACK_* env vars, and CLI flags.
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Store        StoreConfig   `mapstructure:"store"`
	Journal      JournalConfig `mapstructure:"journal"`
	Log          LogConfig     `mapstructure:"log"`
	DefaultColor string        `mapstructure:"default_color"`
	Verbose      bool          `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("store.backend", "json")
	viper.SetDefault("store.path", "")
	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.path", "")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.development", false)
	viper.SetDefault("default_color", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Journal.Path = expandHome(cfg.Journal.Path)
	return cfg, nil
}

// StorePath returns the configured store path, or fileName inside DataDir
// when none is set.
func (c Config) StorePath(fileName string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, fileName)
}

// JournalPath returns the configured journal path, or journal.jsonl inside
// DataDir when none is set.
func (c Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.DataDir, "journal.jsonl")
}

// LogLevel returns the effective log level; verbose forces debug.
func (c Config) LogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.Log.Level
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".habitrack"
	}
	return filepath.Join(home, ".habitrack")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

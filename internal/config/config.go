// Package config provides configuration types, defaults, and persistence
// for trove.
package config

import (
	"os"
	"path/filepath"

	"github.com/trovehq/trove/internal/tracing"
)

// Config holds all configuration options for trove.
type Config struct {
	// DBPath is the sqlite database file location.
	// Default: ~/.trove/trove.db
	DBPath string `mapstructure:"db_path"`

	// LogPath is the debug log file location. Empty disables file logging.
	LogPath string `mapstructure:"log_path"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`

	// Actor is the provenance name recorded on every mutation.
	// Default: $USER, falling back to "local".
	Actor string `mapstructure:"actor"`

	// AutoRefresh re-reads the database when another process writes it.
	AutoRefresh bool `mapstructure:"auto_refresh"`

	// CacheTTLMinutes bounds how long entity projections stay cached.
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"`

	// Tracing holds the tracing subsystem configuration.
	Tracing tracing.Config `mapstructure:"tracing"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		DBPath:          DefaultDBPath(),
		LogPath:         "",
		Debug:           false,
		Actor:           defaultActor(),
		AutoRefresh:     true,
		CacheTTLMinutes: 10,
		Tracing:         defaultTracing(),
	}
}

// DefaultDBPath returns ~/.trove/trove.db, or a relative fallback when the
// home directory cannot be determined.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trove.db"
	}
	return filepath.Join(home, ".trove", "trove.db")
}

// DefaultConfigPath returns ~/.config/trove/trove.yaml or empty string if
// home dir unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "trove", "trove.yaml")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "trove", "traces", "traces.jsonl")
}

func defaultActor() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "local"
}

func defaultTracing() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.FilePath = DefaultTracesFilePath()
	return cfg
}

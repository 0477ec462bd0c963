package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is the on-disk YAML shape. Kept separate from Config so the
// written file carries yaml keys matching the mapstructure names viper reads.
type configFile struct {
	DBPath          string            `yaml:"db_path"`
	LogPath         string            `yaml:"log_path,omitempty"`
	Debug           bool              `yaml:"debug"`
	Actor           string            `yaml:"actor"`
	AutoRefresh     bool              `yaml:"auto_refresh"`
	CacheTTLMinutes int               `yaml:"cache_ttl_minutes"`
	Tracing         tracingConfigFile `yaml:"tracing"`
}

type tracingConfigFile struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	FilePath     string  `yaml:"file_path,omitempty"`
	OTLPEndpoint string  `yaml:"otlp_endpoint,omitempty"`
	SampleRate   float64 `yaml:"sample_rate"`
	ServiceName  string  `yaml:"service_name,omitempty"`
}

// Save writes cfg to configPath atomically (temp file, then rename).
func Save(configPath string, cfg Config) error {
	out := configFile{
		DBPath:          cfg.DBPath,
		LogPath:         cfg.LogPath,
		Debug:           cfg.Debug,
		Actor:           cfg.Actor,
		AutoRefresh:     cfg.AutoRefresh,
		CacheTTLMinutes: cfg.CacheTTLMinutes,
		Tracing: tracingConfigFile{
			Enabled:      cfg.Tracing.Enabled,
			Exporter:     cfg.Tracing.Exporter,
			FilePath:     cfg.Tracing.FilePath,
			OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
			SampleRate:   cfg.Tracing.SampleRate,
			ServiceName:  cfg.Tracing.ServiceName,
		},
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".trove.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// WriteDefault writes the default configuration to configPath unless a file
// already exists there.
func WriteDefault(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}
	return Save(configPath, Default())
}

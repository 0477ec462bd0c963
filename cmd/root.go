// Package cmd implements the trove command line interface.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trovehq/trove/internal/config"
	"github.com/trovehq/trove/internal/log"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "trove",
	Short: "A local-first manager for heterogeneous records",
	Long: `Trove stores projects, tasks, inventory, notes, contacts, and shipments
as typed records in a local database. Every mutation is validated against the
type's schema, logged to the activity trail, and published as an event.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/trove/trove.yaml)")
	rootCmd.PersistentFlags().String("db", "",
		"database file (default: ~/.trove/trove.db)")
	rootCmd.PersistentFlags().String("actor", "",
		"actor name recorded on mutations")
	rootCmd.PersistentFlags().Bool("debug", false,
		"enable debug logging")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Default()
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("log_path", defaults.LogPath)
	viper.SetDefault("actor", defaults.Actor)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("cache_ttl_minutes", defaults.CacheTTLMinutes)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .trove/trove.yaml (current directory)
		// 2. ~/.config/trove/trove.yaml (user config)
		if _, err := os.Stat(".trove/trove.yaml"); err == nil {
			viper.SetConfigFile(".trove/trove.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "trove"))
			viper.SetConfigName("trove")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := config.DefaultConfigPath()
			if defaultPath != "" {
				if writeErr := config.WriteDefault(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults
		}
	}

	_ = viper.Unmarshal(&cfg)

	if cfg.LogPath != "" {
		if _, err := log.Init(cfg.LogPath); err == nil && !cfg.Debug {
			log.SetMinLevel(log.LevelInfo)
		}
	}
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

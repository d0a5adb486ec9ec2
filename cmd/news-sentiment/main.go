// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the news-sentiment CLI.
// collect gathers scored newspaper sentences per year interval; report
// turns a collection log into weighted comparison charts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentiment/internal/logger"
	"github.com/pdiddy/news-sentiment/internal/secrets"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "news-sentiment/0.1"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Store

	// appLog receives diagnostics; progress goes to stdout.
	appLog = logger.Discard()
)

// rootCmd is the base command for the news-sentiment CLI.
var rootCmd = &cobra.Command{
	Use:   "news-sentiment",
	Short: "Historical newspaper sentiment collection and reporting",
	Long: `news-sentiment queries the Chronicling America archive for newspaper pages
mentioning a set of keywords, scores the sentiment of the sentences that
mention them, and charts the weighted yearly volume against a comparison
dataset.

collect writes one result CSV per year interval and a log CSV; report reads
the log back and renders the charts. The log is the only state shared
between the two.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if ok, err := secrets.LoadDotenv(".env"); err != nil {
			return err
		} else if ok {
			fmt.Fprintln(os.Stderr, "Loaded .env")
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		var cfg types.LogConfig
		if err := viper.UnmarshalKey("log", &cfg); err != nil {
			return fmt.Errorf("reading log config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Level = lvl
		}
		l, err := logger.New(cfg, os.Stderr)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		appLog = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return appLog.Close()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./news-sentiment.yaml or ~/.config/news-sentiment/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("news-sentiment")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "news-sentiment"))
		}
	}

	viper.SetDefault("log.level", "warn")
	viper.SetEnvPrefix("NEWS_SENTIMENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// secretDefault returns value if set, otherwise the secret stored under key.
func secretDefault(value, key string) string {
	if value != "" {
		return value
	}
	return loadedSecrets.Get(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

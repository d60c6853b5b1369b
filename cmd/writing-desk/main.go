// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the writing-desk CLI. It drives the
// citation engine, originality scorer and submission workflow against a
// YAML draft project.
package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/internal/secrets"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration, loaded before every command.
	cfg types.WriterConfig

	logger = zap.NewNop()
)

// rootCmd is the base command for the writing-desk CLI.
var rootCmd = &cobra.Command{
	Use:   "writing-desk",
	Short: "Citations, originality scoring and assignment submission for drafts",
	Long: `writing-desk works on a YAML draft project. It keeps the numbered
bibliography in step with the [n] markers in the text, scores the draft for
AI-generated content, validates assignment codes, and submits finished work.

Configuration is read from ./writing-desk.yaml or
~/.config/writing-desk/config.yaml and WRITING_DESK_* environment variables.
Credentials are read from .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, used, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}

		l, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger = l
		if used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		secrets.Apply(&cfg, s)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./writing-desk.yaml or ~/.config/writing-desk/config.yaml)")
	rootCmd.PersistentFlags().StringP("project", "p", "draft.yaml", "draft project file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

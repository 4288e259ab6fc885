// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/app"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
)

const defaultEnvFile = ".env"

// cli carries the global flags shared by every subcommand.
type cli struct {
	configPath string
	envFile    string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "reelmatch",
		Short:        "Semantic movie recommendations from a CSV catalog",
		SilenceUsage: true,
		Long: `ReelMatch recommends movies whose descriptions are closest in meaning to
a given title. Embeddings are cached next to the catalog and recomputed only
when the catalog content changes.`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.loadEnv()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config.yaml (overrides CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", defaultEnvFile, "dotenv file loaded before configuration")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newRecommendCmd(c),
		newIndexCmd(c),
		newFingerprintCmd(c),
	)
	return root
}

// loadEnv reads the dotenv file. A missing default file is not an error;
// a missing file named explicitly with --env-file is.
func (c *cli) loadEnv() error {
	if c.envFile == "" {
		return nil
	}
	err := godotenv.Load(c.envFile)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && c.envFile == defaultEnvFile {
		return nil
	}
	return fmt.Errorf("load %s: %w", c.envFile, err)
}

// loadConfig resolves configuration and initializes logging on stderr.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	if c.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, c.configPath); err != nil {
			return nil, zerolog.Nop(), err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	return cfg, logging.Logger(), nil
}

// session is a loaded configuration with its wired components.
type session struct {
	cfg        *config.Config
	components *app.Components
	logger     zerolog.Logger
}

// open loads configuration and wires the components. Callers must close the session.
func (c *cli) open(cmd *cobra.Command) (*session, error) {
	cfg, logger, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	components, err := app.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, components: components, logger: logger}, nil
}

func (s *session) close() {
	if err := s.components.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error releasing components")
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

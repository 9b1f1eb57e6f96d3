package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introscore",
		Short: "introscore - rubric scoring for spoken self-introductions",
		Long: `introscore scores the transcript of a spoken self-introduction against an
eight-criterion rubric (salutation, keywords, flow, pacing, grammar, clarity,
engagement and vocabulary) and reports a total out of 100 with per-criterion
feedback.

Settings are read from .introscore.yaml (searched upward from the working
directory) and API keys from the environment or a .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	envFile := cmd.PersistentFlags().String("env-file", ".env", "Environment file to load before running")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return loadEnvFile(*envFile)
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newBatchCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newRubricCommand())
	cmd.AddCommand(newCacheCommand())

	return cmd
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("Loaded environment file", "path", path)
	return nil
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

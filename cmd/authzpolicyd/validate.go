package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaqx0r/authzpolicy/internal/config"
	"github.com/jaqx0r/authzpolicy/internal/harness"
	"github.com/jaqx0r/authzpolicy/internal/logging"
)

// validateConfig holds flags for the validate subcommand.
type validateConfig struct {
	logFormat string
}

func newValidateCmd() *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Compile the policy and run its declared test suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.logFormat, "log-format", "json", "log format (json or text)")

	return cmd
}

func runValidate(path string, cfg *validateConfig) error {
	logger := logging.Setup("authzpolicyd", version, cfg.logFormat, nil)

	loaded, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return fmt.Errorf("validate: %w", err)
	}

	if _, err := harness.Run(loaded, logger); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return nil
}

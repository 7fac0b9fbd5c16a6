package cli

import (
	"fmt"

	"player-analytics/internal/shared/configs"
	"player-analytics/internal/shared/loggers"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

const defaultConfigPath = "./configs/configs.yml"

func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect and export player analytics data.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "path to the config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewReportCmd().Command(),
		NewExportCmd().Command(),
	)
	return rootCmd
}

// loadConfig reads the --config file and builds a logger for the command.
func loadConfig(cmd *cobra.Command) (*configs.Config, loggers.Logger, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, loggers.Logger{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, loggers.Logger{}, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	cfg, err := configs.LoadConfig(path)
	if err != nil {
		return nil, loggers.Logger{}, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := loggers.New(level)
	if err != nil {
		return nil, loggers.Logger{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.With().Str(loggers.FieldApp, "dashctl").Logger(), nil
}

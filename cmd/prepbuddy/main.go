package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/logger"
)

var version = "dev"

func main() {
	var configPath string
	rootCmd := &cobra.Command{
		Use:           "prepbuddy",
		Short:         "Placement preparation assistant, tracker and mock interviews",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("CONFIG_PATH", configPath)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file (default ./config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newQuizCmd(),
		newInterviewCmd(),
		newMCPCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and points the logger at out and the
// configured log file.
func bootstrap(out io.Writer) (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.SetLevel(cfg.Log.Level)
	closeLog, err := logger.Setup(out, cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, func() { _ = closeLog() }, nil
}

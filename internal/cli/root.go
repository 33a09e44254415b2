// Package cli provides the command-line interface for the Lucid console.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lucid-sh/console/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lucid-console",
		Short: "Lucid Console - fleet management web console",
		Long: `Lucid Console serves the administrative web console for a Lucid
fleet-management API: hosts, activation keys, and certificate authorities.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./console.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the Lucid API")
	rootCmd.PersistentFlags().Int("port", 0, "Port to serve the console on")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newLsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger builds the process logger from the loaded config.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

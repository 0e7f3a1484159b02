// Watchface-cfg is the companion configuration utility for watchface.
//
// It finds running watches with mDNS and sends them new colors and display
// options over the sync WebSocket. The watch applies the settings at once
// and keeps them across restarts.
//
// Usage:
//
//	watchface-cfg [command] [flags]
//
// See 'watchface-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/watchface/internal/config"
	"github.com/muurk/watchface/internal/logging"
	"github.com/muurk/watchface/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "watchface-cfg",
	Short: "Watchface configuration utility",
	Long: `A companion utility for configuring running watchfaces.

Discovers watches on the local network and sends them colors, the 12/24-hour
format, the weekday/month choice and the hourly vibration setting. Changes
take effect immediately and are stored on the watch.`,
	Version:      version.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logging.Initialize(logLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/watchface/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("watchface-cfg %s (commit: %s) %s\n", version.Version, version.Commit, version.Platform())
	},
}

// Watchface runs a digital watchface in the terminal.
//
// The face shows the time in large block digits with the day of the month
// and the weekday (or month) beside it. Colors and display options are
// stored in a local database and can be changed at runtime by the
// watchface-cfg companion over the network.
//
// Usage:
//
//	watchface [command] [flags]
//
// Running without a command starts the watch. See 'watchface --help' for
// available commands.
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
	logFile    string
)

// cfg is loaded before every command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "watchface",
	Short: "Terminal watchface",
	Long: `A digital watchface for the terminal.

Shows the time, the day of the month and the weekday (or month) on an
emulated watch screen. Colors, 12/24-hour format, month display and the
hourly vibration are configured remotely with the 'watchface-cfg' utility
and persist across restarts.

If no command is specified, the watch starts.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runWatch,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/watchface/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config and "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// initLogging resolves the log level from flag, environment and config.
// toFile forces file output so logs cannot draw over the watch.
func initLogging(toFile bool) error {
	level := logLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		level = cfg.Log.Level
	}

	path := logFile
	if path == "" && (toFile || cfg.Log.File != "") && os.Getenv(logging.LogFileEnvVar) == "" {
		p, err := cfg.LogPath()
		if err != nil {
			return err
		}
		path = p
	}
	return logging.InitializeWithOutput(level, path)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("watchface %s (commit: %s) %s\n", version.Version, version.Commit, version.Platform())
	},
}

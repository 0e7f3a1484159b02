package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/companion"
	"github.com/muurk/watchface/internal/persist"
	"github.com/muurk/watchface/internal/settings"
	"github.com/muurk/watchface/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change stored watchface settings",
	Long: `Inspect or change the settings stored on this machine.

These commands open the settings database directly, so the watch must not
be running. Use 'watchface-cfg set' to change a running watch.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored settings",
	RunE:  runSettingsShow,
}

var settingsResetYes bool

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored settings",
	Long: `Delete the stored settings. The watch uses the platform defaults the
next time it starts.`,
	RunE: runSettingsReset,
}

var settingsSetFlags *companion.Flags

var settingsSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Change stored settings offline",
	Example: `  watchface settings set --background black --hour "#FFAA00" --24h=false`,
	RunE:    runSettingsSet,
}

func init() {
	settingsResetCmd.Flags().BoolVarP(&settingsResetYes, "yes", "y", false, "Skip the confirmation prompt")
	settingsSetFlags = companion.BindFlags(settingsSetCmd.Flags())

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

// loadStore opens the database and loads the settings for the configured
// platform.
func loadStore() (*persist.Bolt, *settings.Store, error) {
	platform, err := cfg.Platform()
	if err != nil {
		return nil, nil, err
	}
	storage, err := openStorage()
	if err != nil {
		return nil, nil, err
	}
	store := settings.NewStore(storage, platform)
	store.Load()
	return storage, store, nil
}

// settingsResult lists settings in message key order.
func settingsResult(title string, s settings.Settings, storage *persist.Bolt) *ui.Result {
	fields := s.Fields()
	result := ui.NewSuccessResult(title)
	for _, key := range appmsg.Keys() {
		result.AddDetail(key, fields[key])
	}
	result.AddDetail("Storage", storage.Path())
	if !storage.Exists(settings.Key) {
		result.AddDetail("Source", "platform defaults")
	}
	return result
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	if err := initLogging(false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	storage, store, err := loadStore()
	if err != nil {
		return err
	}
	defer storage.Close()

	ui.NewPrinter(os.Stdout).PrintResult(settingsResult("Watchface settings", *store.Current(), storage))
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if err := initLogging(false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	storage, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close()

	if !settingsResetYes && !ui.ConfirmSettingsReset(os.Stdin, os.Stdout, storage.Path()) {
		return nil
	}
	if err := storage.Delete(settings.Key); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	ui.NewPrinter(os.Stdout).PrintResult(
		ui.NewSuccessResult("Settings reset").AddDetail("Storage", storage.Path()))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := initLogging(false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	opts := settingsSetFlags.Options()
	if opts.Empty() {
		return fmt.Errorf("no settings given; see 'watchface settings set --help'")
	}
	msg, err := opts.Message()
	if err != nil {
		return err
	}
	// Round-trip through the wire format so offline edits follow the same
	// rules as synced ones.
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	update, err := appmsg.Decode(data)
	if err != nil {
		return err
	}

	storage, store, err := loadStore()
	if err != nil {
		return err
	}
	defer storage.Close()

	update.Apply(store.Current())
	if err := store.Save(); err != nil {
		return err
	}

	ui.NewPrinter(os.Stdout).PrintResult(settingsResult("Settings saved", *store.Current(), storage))
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/face"
	"github.com/muurk/watchface/internal/ui"
)

var (
	previewTime     string
	previewDate     string
	previewPlatform string
	previewDefaults bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print one frame of the watchface",
	Long: `Render the watchface once with the stored settings and exit.

Useful for checking colors and layout without starting the watch, or for
comparing platforms side by side.`,
	Example: `  # Show the face at 09:05 on a round watch
  watchface preview --time 09:05 --platform chalk

  # Show a specific date with the default colors
  watchface preview --date 2024-02-29 --defaults`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewTime, "time", "", "Time to show as HH:MM (default now)")
	previewCmd.Flags().StringVar(&previewDate, "date", "", "Date to show as YYYY-MM-DD (default today)")
	previewCmd.Flags().StringVar(&previewPlatform, "platform", "", "Watch platform (default from config)")
	previewCmd.Flags().BoolVar(&previewDefaults, "defaults", false, "Ignore stored settings")
}

// previewInstant combines the --date and --time flags with now.
func previewInstant(now time.Time, date, clockTime string) (time.Time, error) {
	t := now
	if date != "" {
		d, err := time.ParseInLocation("2006-01-02", date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
		}
		t = time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	}
	if clockTime != "" {
		c, err := time.Parse("15:04", clockTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --time %q: expected HH:MM", clockTime)
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), 0, 0, t.Location())
	}
	return t, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := initLogging(false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	name := cfg.Watch.Platform
	if previewPlatform != "" {
		name = previewPlatform
	}
	platform, err := display.LookupPlatform(name)
	if err != nil {
		return err
	}

	at, err := previewInstant(time.Now(), previewDate, previewTime)
	if err != nil {
		return err
	}

	fc := face.Config{
		Platform: platform,
		Now:      func() time.Time { return at },
	}
	if !previewDefaults {
		mem, err := snapshotSettings()
		if err != nil {
			return err
		}
		fc.Storage = mem
	}

	app := face.New(fc)
	if err := app.Init(); err != nil {
		return err
	}
	defer func() { _ = app.Deinit() }()

	frame := ui.NewRenderer(platform).Render(app.Screen())
	return ui.RenderOnce(frame+"\n", os.Stdout)
}

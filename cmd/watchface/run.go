package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/clock"
	"github.com/muurk/watchface/internal/discovery"
	"github.com/muurk/watchface/internal/face"
	"github.com/muurk/watchface/internal/logging"
	"github.com/muurk/watchface/internal/server"
	"github.com/muurk/watchface/internal/ui"
	"github.com/muurk/watchface/internal/version"
)

// shutdownTimeout bounds how long the sync server gets to close connections.
const shutdownTimeout = 5 * time.Second

// Watch flags, shared by the root command and 'run'.
var (
	runPlatform        string
	runStorage         string
	runHost            string
	runPort            int
	runNoAdvertise     bool
	runName            string
	runCert            string
	runKey             string
	runAnalysisDir     string
	runNoBell          bool
	runFocusWorkaround bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the watch (default command)",
	Long: `Start the watchface in the terminal.

The sync server listens for settings from 'watchface-cfg' and, unless
disabled, the watch announces itself over mDNS so the companion can find it.

Keys:
  f  simulate a notification (focus lost and regained)
  ?  toggle help
  q  quit`,
	Example: `  # Start a round color watch
  watchface run --platform chalk

  # Start without the network sync server
  watchface run --port 0

  # Serve wss:// with your own certificate
  watchface run --cert cert.pem --key key.pem`,
	RunE: runWatch,
}

func init() {
	addWatchFlags(rootCmd)
	addWatchFlags(runCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&runPlatform, "platform", "", "Watch platform (aplite, basalt, chalk, diorite, emery)")
	f.StringVar(&runStorage, "storage", "", "Settings database (default <config dir>/storage.db)")
	f.StringVar(&runHost, "host", "", "Sync server bind address")
	f.IntVar(&runPort, "port", 0, "Sync server port (0 disables sync)")
	f.BoolVar(&runNoAdvertise, "no-advertise", false, "Do not announce the watch over mDNS")
	f.StringVar(&runName, "name", "", "mDNS instance name")
	f.StringVar(&runCert, "cert", "", "TLS certificate for wss://")
	f.StringVar(&runKey, "key", "", "TLS private key for wss://")
	f.StringVar(&runAnalysisDir, "analysis-dir", "", "Capture received sync messages to this directory")
	f.BoolVar(&runNoBell, "no-bell", false, "Do not ring the terminal bell on vibration")
	f.BoolVar(&runFocusWorkaround, "focus-workaround", true, "Hide the face while a notification is shown")
}

// applyWatchFlags overrides config values with flags given on the command line.
func applyWatchFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("platform") {
		cfg.Watch.Platform = runPlatform
	}
	if f.Changed("storage") {
		cfg.Watch.StoragePath = runStorage
	}
	if f.Changed("host") {
		cfg.Sync.Host = runHost
	}
	if f.Changed("port") {
		cfg.Sync.Port = runPort
	}
	if f.Changed("no-advertise") {
		cfg.Sync.Advertise = !runNoAdvertise
	}
	if f.Changed("name") {
		cfg.Sync.Name = runName
	}
	if f.Changed("cert") {
		cfg.Sync.CertPath = runCert
	}
	if f.Changed("key") {
		cfg.Sync.KeyPath = runKey
	}
	if f.Changed("analysis-dir") {
		cfg.Sync.AnalysisDir = runAnalysisDir
	}
	if f.Changed("no-bell") {
		cfg.Watch.Bell = !runNoBell
	}
	if f.Changed("focus-workaround") {
		cfg.Watch.FocusWorkaround = runFocusWorkaround
	}
	return cfg.Validate()
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := applyWatchFlags(cmd); err != nil {
		return err
	}
	// The watch owns the terminal, so logs go to a file.
	if err := initLogging(true); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	platform, err := cfg.Platform()
	if err != nil {
		return err
	}
	storage, err := openStorage()
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logging.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	loop := &ui.Loop{}
	vibrator := ui.NewBellVibrator(os.Stdout, cfg.Watch.Bell)
	app := face.New(face.Config{
		Platform:        platform,
		Storage:         storage,
		Clock:           clock.NewService(loop.Post),
		Vibrator:        vibrator,
		FocusWorkaround: cfg.Watch.FocusWorkaround,
	})
	model := ui.NewWatchModel(app, vibrator)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	loop.Attach(program)

	if err := app.Init(); err != nil {
		return err
	}

	if cfg.Sync.Port > 0 {
		srv, err := startSync(loop, app, model)
		if err != nil {
			_ = app.Deinit()
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logging.Warn("Sync server shutdown failed", zap.Error(err))
			}
		}()

		if cfg.Sync.Advertise {
			adv, err := discovery.Advertise(discovery.Announcement{
				Name:     cfg.Sync.Name,
				Port:     srv.Port(),
				Path:     server.SyncPath,
				Platform: platform.Name,
				Version:  version.Version,
				TLS:      srv.TLS(),
			})
			if err != nil {
				logging.Warn("mDNS announcement failed", zap.Error(err))
			} else {
				defer adv.Shutdown()
			}
		}
		model.SetStatus(fmt.Sprintf("sync on :%d", srv.Port()))
	}

	_, runErr := program.Run()
	if app.State() != face.StateTerminated {
		if err := app.Deinit(); err != nil {
			logging.Warn("Deinit after exit failed", zap.Error(err))
		}
	}
	return errors.Join(runErr, model.Err())
}

// startSync starts the sync server. Updates are applied on the event loop.
func startSync(loop *ui.Loop, app *face.App, model *ui.WatchModel) (*server.Server, error) {
	srv, err := server.New(&server.Config{
		Host:        cfg.Sync.Host,
		Port:        cfg.Sync.Port,
		CertPath:    cfg.Sync.CertPath,
		KeyPath:     cfg.Sync.KeyPath,
		AnalysisDir: cfg.Sync.AnalysisDir,
		Platform:    app.Platform().Name,
		Version:     version.Version,
		Dispatch: func(ctx context.Context, u *appmsg.Update) error {
			return loop.Call(ctx, func() error {
				err := app.Inbox().Deliver(u)
				if err != nil {
					model.SetStatus("sync failed: " + err.Error())
				} else {
					model.SetStatus(fmt.Sprintf("synced %d field(s)", len(u.Present())))
				}
				return err
			})
		},
	})
	if err != nil {
		return nil, err
	}
	if err := srv.Listen(); err != nil {
		return nil, err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			logging.Error("Sync server stopped", zap.Error(err))
		}
	}()
	return srv, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/companion"
	"github.com/muurk/watchface/internal/discovery"
	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/logging"
	"github.com/muurk/watchface/internal/ui"
)

// Target flags, shared by every command that talks to a watch.
var (
	watchURL    string
	watchName   string
	scanTimeout int
	sendTimeout int
	sendRetries int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&watchURL, "watch", "", "Watch sync URL, e.g. ws://10.0.0.5:9301/sync (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&watchName, "name", "", "Watch mDNS instance name")
	rootCmd.PersistentFlags().IntVar(&scanTimeout, "timeout", 0, "Discovery timeout in seconds (default from config)")
	rootCmd.PersistentFlags().IntVar(&sendTimeout, "send-timeout", int(companion.DefaultTimeout/time.Second), "Seconds to wait for the watch to acknowledge (0 uses the default)")
	rootCmd.PersistentFlags().IntVar(&sendRetries, "retries", 2, "Extra attempts when the watch is unreachable")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)
}

// startSpinner shows progress on stderr while a blocking call runs.
func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")
	if term.IsTerminal(int(os.Stderr.Fd())) {
		s.Start()
	}
	return s
}

func discoveryTimeout() time.Duration {
	if scanTimeout > 0 {
		return time.Duration(scanTimeout) * time.Second
	}
	if cfg.Companion.ScanTimeout > 0 {
		return time.Duration(cfg.Companion.ScanTimeout) * time.Second
	}
	return discovery.DefaultScanTimeout
}

// scanCmd discovers watches on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for running watches on the network",
	Long: `Scan for watches using mDNS/DNS-SD discovery.

Every watch started with sync enabled announces itself as a _watchface._tcp
service. This command lists the watches that answer with their sync URL.`,
	Example: `  # Scan with the configured timeout
  watchface-cfg scan

  # Longer scan for slow networks
  watchface-cfg scan --timeout 15`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := discoveryTimeout()
	s := startSpinner(fmt.Sprintf("Scanning for watches (timeout: %s)...", timeout))
	watches, err := discovery.ScanForWatches(timeout)
	s.Stop()

	printer := ui.NewPrinter(os.Stdout)
	if err != nil {
		printer.PrintError("Scan failed", err, ui.ScanHints)
		return err
	}
	if len(watches) == 0 {
		result := ui.NewWarningResult("No watches found")
		result.Troubleshooting = ui.ScanHints
		printer.PrintResult(result)
		return nil
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Found %d watch(es)", len(watches)))
	for _, w := range watches {
		result.AddDetail(w.Name, describeWatch(w))
	}
	printer.PrintResult(result)
	printer.Println("  Use 'watchface-cfg set --name <name>' to configure a watch")
	return nil
}

func describeWatch(w *discovery.Watch) string {
	parts := []string{w.SyncURL()}
	if w.Platform != "" {
		parts = append(parts, w.Platform)
	}
	if w.Version != "" {
		parts = append(parts, "v"+w.Version)
	}
	return strings.Join(parts, " • ")
}

// pickCmd chooses the default watch interactively
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the default watch interactively",
	Long: `Scan for watches and choose one from a list. The choice is saved in the
config file and used by later commands that are not given --watch or --name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pick, err := ui.RunPicker(scanFunc(), discoveryTimeout())
		if err != nil {
			return err
		}
		if pick == nil {
			return nil
		}
		url, err := companion.NormalizeURL(pick.URL)
		if err != nil {
			return err
		}
		if err := rememberWatch(pick.Name, url, pick.Platform); err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintResult(
			ui.NewSuccessResult("Default watch saved").
				AddDetail("Name", pick.Name).
				AddDetail("URL", url))
		return nil
	},
}

func scanFunc() ui.ScanFunc {
	return func(ctx context.Context) ([]*discovery.Watch, error) {
		scanner := discovery.NewScanner()
		scanner.Timeout = discoveryTimeout()
		return scanner.ScanForWatchesWithContext(ctx)
	}
}

var setFlags *companion.Flags

// setCmd sends settings to a watch
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Send settings to a watch",
	Long: `Send colors and display options to a running watch.

Only the options given are sent; everything else keeps its current value.
Colors are #RRGGBB, 0xRRGGBB, RRGGBB or one of the palette names. On
black-and-white watches colors are shown as black or white.`,
	Example: `  # Orange hours on a black background
  watchface-cfg set --background black --hour "#FFAA00"

  # 12-hour clock with the month shown
  watchface-cfg set --24h=false --show-month

  # Talk to a specific watch
  watchface-cfg set --watch ws://10.0.0.5:9301/sync --vibe-hour`,
	RunE: runSet,
}

func init() {
	setFlags = companion.BindFlags(setCmd.Flags())
}

func runSet(cmd *cobra.Command, args []string) error {
	opts := setFlags.Options()
	if opts.Empty() {
		return errors.New("no settings given; see 'watchface-cfg set --help'")
	}
	return send(cmd, "Update settings", opts, nil)
}

var resetPlatform string

// resetCmd restores default settings on a watch
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore a watch's default settings",
	Long: `Send every setting with the platform's default value.

The platform is taken from --platform, then from the watch's mDNS record,
then from the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(cmd, "Reset settings", companion.Options{}, func(platform string) (companion.Options, error) {
			name := resetPlatform
			if name == "" {
				name = platform
			}
			if name == "" {
				name = cfg.Watch.Platform
			}
			p, err := display.LookupPlatform(name)
			if err != nil {
				return companion.Options{}, err
			}
			return companion.DefaultOptions(p), nil
		})
	},
}

func init() {
	resetCmd.Flags().StringVar(&resetPlatform, "platform", "", "Platform whose defaults to send")
}

// target is a resolved watch endpoint.
type target struct {
	name     string
	url      string
	platform string
}

// resolveTarget finds the watch to talk to: --watch, then --name (known
// watches first, then mDNS), then the last configured watch, then a scan.
func resolveTarget() (*target, error) {
	if watchURL != "" {
		url, err := companion.NormalizeURL(watchURL)
		if err != nil {
			return nil, err
		}
		name := watchName
		if name == "" {
			name = url
		}
		return &target{name: name, url: url}, nil
	}

	if watchName != "" {
		if known, ok := cfg.Companion.Watches[watchName]; ok && known.URL != "" {
			return &target{name: watchName, url: known.URL, platform: known.Platform}, nil
		}
		s := startSpinner(fmt.Sprintf("Looking for watch %q...", watchName))
		scanner := discovery.NewScanner()
		scanner.Timeout = discoveryTimeout()
		w, err := scanner.WaitForWatch(watchName)
		s.Stop()
		if err != nil {
			return nil, err
		}
		return &target{name: w.Name, url: w.SyncURL(), platform: w.Platform}, nil
	}

	if name, known := cfg.LastWatch(); known != nil && known.URL != "" {
		return &target{name: name, url: known.URL, platform: known.Platform}, nil
	}

	timeout := discoveryTimeout()
	s := startSpinner("No watch specified, scanning...")
	watches, err := discovery.ScanForWatches(timeout)
	s.Stop()
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	switch len(watches) {
	case 0:
		return nil, errors.New("no watches found; use --watch to give the URL")
	case 1:
		w := watches[0]
		return &target{name: w.Name, url: w.SyncURL(), platform: w.Platform}, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		pick, err := ui.RunPicker(scanFunc(), timeout)
		if err != nil {
			return nil, err
		}
		if pick == nil {
			return nil, errors.New("no watch selected")
		}
		url, err := companion.NormalizeURL(pick.URL)
		if err != nil {
			return nil, err
		}
		return &target{name: pick.Name, url: url, platform: pick.Platform}, nil
	}

	names := make([]string, 0, len(watches))
	for _, w := range watches {
		names = append(names, w.Name)
	}
	return nil, fmt.Errorf("multiple watches found (%s); use --name to choose one", strings.Join(names, ", "))
}

// send resolves the watch, builds the message and reports the result.
// options, when set, computes the options once the watch's platform is known.
func send(cmd *cobra.Command, title string, opts companion.Options, options func(platform string) (companion.Options, error)) error {
	printer := ui.NewPrinter(os.Stdout)

	t, err := resolveTarget()
	if err != nil {
		printer.PrintError(title, err, ui.ScanHints)
		return err
	}

	if options != nil {
		if opts, err = options(t.platform); err != nil {
			return err
		}
	}
	msg, err := opts.Message()
	if err != nil {
		printer.PrintError(title, err, companion.TroubleshootingHints(err))
		return err
	}

	printer.PrintHeader(ui.NewHeader(title, cmd.CommandPath(),
		ui.Detail{Key: "Watch", Value: t.name},
		ui.Detail{Key: "URL", Value: t.url},
		ui.Detail{Key: "Fields", Value: strings.Join(msg.Keys(), ", ")},
	))

	client, err := companion.NewClient(t.url)
	if err != nil {
		return err
	}
	client.SetTimeout(time.Duration(sendTimeout) * time.Second)

	ack, err := sendWithRetry(cmd.Context(), client, msg)
	if err != nil {
		printer.PrintError(title, err, companion.TroubleshootingHints(err))
		return err
	}

	result := ui.NewSuccessResult("Settings applied").
		AddDetail("Applied", strings.Join(ack.Applied, ", "))
	if len(ack.Ignored) > 0 {
		result.Type = ui.ResultWarning
		result.AddDetail("Ignored", strings.Join(ack.Ignored, ", "))
	}
	printer.PrintResult(result)

	return rememberWatch(t.name, client.URL(), t.platform)
}

// sendWithRetry sends msg, retrying network failures that may be transient.
// A watch that answered with a nack is never retried.
func sendWithRetry(ctx context.Context, client *companion.Client, msg appmsg.Message) (*appmsg.Ack, error) {
	s := startSpinner("Sending settings...")
	defer s.Stop()

	for attempt := 0; ; attempt++ {
		ack, err := client.Send(ctx, msg)
		if err == nil || attempt >= sendRetries || !companion.IsRetryable(err) {
			return ack, err
		}
		logging.Debug("Retrying send", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}
}

// rememberWatch saves the watch as the default for later commands.
func rememberWatch(name, url, platform string) error {
	cfg.RememberWatch(name, url, platform)
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

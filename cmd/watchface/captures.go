package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/watchface/internal/server"
	"github.com/muurk/watchface/internal/ui"
)

var capturesCmd = &cobra.Command{
	Use:   "captures <capture-file.jsonl>",
	Short: "Summarise sync messages captured with --analysis-dir",
	Long: `Read a capture file written by a watch started with --analysis-dir and
show, for every message, which fields the watch applied and which it
ignored.`,
	Example: `  watchface run --analysis-dir ./captures
  watchface captures ./captures/capture-20240301.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runCaptures,
}

func init() {
	rootCmd.AddCommand(capturesCmd)
}

func runCaptures(cmd *cobra.Command, args []string) error {
	captures, err := server.ReadCaptures(args[0])
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader(ui.NewHeader("Capture analysis", cmd.CommandPath(),
		ui.Detail{Key: "File", Value: args[0]},
		ui.Detail{Key: "Messages", Value: fmt.Sprint(len(captures))},
	))

	for _, c := range captures {
		if c.Update == nil {
			title := fmt.Sprintf("Line %d", c.Line)
			if c.MessageNum > 0 {
				title = fmt.Sprintf("Message #%d", c.MessageNum)
			}
			result := ui.NewFailureResult(title, c.Err, nil)
			if c.PayloadRaw != "" {
				result.AddDetail("Payload", c.PayloadRaw)
			}
			printer.PrintResult(result)
			continue
		}

		result := ui.NewSuccessResult(fmt.Sprintf("Message #%d", c.MessageNum)).
			AddDetail("Time", c.Timestamp.Format("2006-01-02 15:04:05")).
			AddDetail("From", c.RemoteAddr).
			AddDetail("Applied", strings.Join(c.Update.Present(), ", "))
		if len(c.Update.Malformed) > 0 {
			result.Type = ui.ResultWarning
			result.AddDetail("Ignored", strings.Join(c.Update.Malformed, ", "))
		}
		printer.PrintResult(result)
	}
	return nil
}

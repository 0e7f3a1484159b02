// Package ui hosts the watchface in a terminal and renders CLI output.
//
// # Watch host
//
// WatchModel is a Bubble Tea model wrapping a face.App. The Bubble Tea
// Update loop is the watch's only thread: clock ticks and sync messages
// arrive from other goroutines as DispatchMsg closures posted through a
// Loop, and run one at a time. Terminal focus reports (tea.FocusMsg and
// tea.BlurMsg) drive the App's WillFocus/DidFocus events; the "f" key
// simulates a notification appearing and being dismissed.
//
// Renderer rasterises a display.Screen onto a character grid at 4x8
// pixels per cell. Large time fonts are drawn from a bitmap face using
// half-block characters, date fonts as plain text, round platforms are
// masked to a circle, and the result is framed in a bezel. BellVibrator rings the terminal bell for
// the hourly vibration.
//
// # CLI output
//
// Header, Result and Confirm render the bordered boxes used by the
// watchface and watchface-cfg commands; Printer writes them to an
// io.Writer.
//
// # Logging Integration
//
// This package expects logging to be controlled via the WATCHFACE_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent. While
// the watch is running, logs must go to a file (--log-file) so they do not
// corrupt the screen.
package ui

// Package logging provides structured logging for the watchface and its
// companion tool.
//
// This package wraps a zap logger behind package-level helpers so that every
// component logs the same way without passing a logger around.
//
// # Log Levels
//
//   - Debug: region geometry, tick delivery, raw storage records
//   - Info: lifecycle transitions, sync messages, connections
//   - Warn: ignored or malformed input (corrupt settings, bad fields)
//   - Error: storage and transport failures
//
// # Silent by Default
//
// Nothing is logged unless a level is given, either explicitly or through
// WATCHFACE_LOG_LEVEL:
//
//	if err := logging.InitializeWithOutput("debug", "/tmp/watchface.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The watch UI draws on the terminal, so when it runs logs should go to a
// file (--log-file or WATCHFACE_LOG_FILE).
//
// # Structured Logging
//
//	logging.Info("Settings saved",
//	    zap.String("key", "1"),
//	    zap.Int("bytes", 10),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging

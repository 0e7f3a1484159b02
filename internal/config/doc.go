// Package config manages the YAML configuration file shared by the watchface
// and the watchface-cfg companion.
//
// The file holds host-side preferences only: which platform to emulate,
// where the settings database lives, how the sync server listens and the
// watches the companion has configured before. Display preferences (colors,
// 12/24-hour format, vibration) are not stored here; they live in the
// watch's persistent storage.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/watchface/config.yaml or $HOME/.config/watchface/config.yaml
//   - macOS: $HOME/.config/watchface/config.yaml
//   - Windows: %LOCALAPPDATA%\watchface\config.yaml
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg.RememberWatch("kitchen", "ws://10.0.0.5:9301/sync", "chalk")
//	if err := cfg.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File operations are protected by a mutex and writes are atomic (write to
// a temporary file, then rename).
package config

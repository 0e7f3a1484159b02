package config

import (
	"fmt"
	"time"

	"github.com/muurk/watchface/internal/display"
)

// CurrentVersion is the config file schema version.
const CurrentVersion = 1

// Config represents the entire configuration file shared by the watch and
// the companion tool.
type Config struct {
	Version   int        `yaml:"version"`
	Watch     *Watch     `yaml:"watch,omitempty"`
	Sync      *Sync      `yaml:"sync,omitempty"`
	Log       *Log       `yaml:"log,omitempty"`
	Companion *Companion `yaml:"companion,omitempty"`
}

// Watch configures the emulated watch itself.
type Watch struct {
	Platform        string `yaml:"platform"`         // Platform name (aplite, basalt, chalk, diorite, emery)
	StoragePath     string `yaml:"storage_path"`     // Persistent storage database; empty = config dir
	FocusWorkaround bool   `yaml:"focus_workaround"` // Hide the root layer during focus transitions
	Bell            bool   `yaml:"bell"`             // Ring the terminal bell for hourly vibration
}

// Sync configures the settings sync endpoint.
type Sync struct {
	Host      string `yaml:"host"`      // Listen host; empty = all interfaces
	Port      int    `yaml:"port"`      // Listen port; 0 disables the endpoint
	Advertise bool   `yaml:"advertise"` // Announce the endpoint over mDNS
	Name      string `yaml:"name"`      // mDNS instance name

	CertPath    string `yaml:"cert_path,omitempty"`    // TLS certificate; empty serves ws://
	KeyPath     string `yaml:"key_path,omitempty"`     // TLS private key
	AnalysisDir string `yaml:"analysis_dir,omitempty"` // Capture received messages as JSONL
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error; empty = silent
	File  string `yaml:"file,omitempty"`  // Log file; empty = config dir/watchface.log
}

// Companion holds preferences for the watchface-cfg tool.
type Companion struct {
	ScanTimeout int               `yaml:"scan_timeout"`         // mDNS scan timeout in seconds
	LastWatch   string            `yaml:"last_watch,omitempty"` // Name of the last watch configured
	Watches     map[string]*Known `yaml:"watches,omitempty"`    // Watches seen before, keyed by name
}

// Known is a watch the companion has talked to.
type Known struct {
	URL      string    `yaml:"url"`
	Platform string    `yaml:"platform,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Watch: &Watch{
			Platform:        display.DefaultPlatform.Name,
			FocusWorkaround: true,
			Bell:            true,
		},
		Sync: &Sync{
			Port:      9301,
			Advertise: true,
			Name:      "watchface",
		},
		Log: &Log{},
		Companion: &Companion{
			ScanTimeout: 5,
			Watches:     make(map[string]*Known),
		},
	}
}

// fillDefaults populates sections missing from a loaded file.
func (c *Config) fillDefaults() {
	def := NewConfig()
	if c.Watch == nil {
		c.Watch = def.Watch
	}
	if c.Sync == nil {
		c.Sync = def.Sync
	}
	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Companion == nil {
		c.Companion = def.Companion
	}
	if c.Companion.Watches == nil {
		c.Companion.Watches = make(map[string]*Known)
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if _, err := display.LookupPlatform(c.Watch.Platform); err != nil {
		return err
	}
	if c.Sync.Port < 0 || c.Sync.Port > 65535 {
		return fmt.Errorf("invalid sync port: %d", c.Sync.Port)
	}
	if (c.Sync.CertPath == "") != (c.Sync.KeyPath == "") {
		return fmt.Errorf("sync cert_path and key_path must be set together")
	}
	return nil
}

// Platform resolves the configured watch platform.
func (c *Config) Platform() (display.Platform, error) {
	return display.LookupPlatform(c.Watch.Platform)
}

// RememberWatch records a watch the companion has configured.
func (c *Config) RememberWatch(name, url, platform string) {
	if c.Companion.Watches == nil {
		c.Companion.Watches = make(map[string]*Known)
	}
	c.Companion.Watches[name] = &Known{
		URL:      url,
		Platform: platform,
		LastSeen: time.Now(),
	}
	c.Companion.LastWatch = name
}

// LastWatch returns the most recently configured watch, if any.
func (c *Config) LastWatch() (string, *Known) {
	if c.Companion == nil || c.Companion.LastWatch == "" {
		return "", nil
	}
	return c.Companion.LastWatch, c.Companion.Watches[c.Companion.LastWatch]
}

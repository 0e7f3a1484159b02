package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Watch represents a watchface discovered on the network
type Watch struct {
	// Name is the mDNS instance name (e.g., "kitchen")
	Name string

	// Hostname is the mDNS hostname (e.g., "raspberrypi.local.")
	Hostname string

	// IP is the address to connect to, IPv4 preferred
	IP string

	// Port is the sync server port
	Port int

	// Path is the WebSocket sync endpoint
	Path string

	// Platform is the emulated platform name
	Platform string

	// Version is the watchface build version
	Version string

	// TLS reports whether the endpoint expects wss://
	TLS bool

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the watch was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the watch
func (w *Watch) String() string {
	platform := w.Platform
	if platform == "" {
		platform = "unknown platform"
	}
	return fmt.Sprintf("Watchface %s (%s) at %s", w.Name, platform, net.JoinHostPort(w.IP, strconv.Itoa(w.Port)))
}

// SyncURL returns the WebSocket URL of the sync endpoint
func (w *Watch) SyncURL() string {
	scheme := "ws"
	if w.TLS {
		scheme = "wss"
	}
	path := w.Path
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(w.IP, strconv.Itoa(w.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (w *Watch) GetMetadata(key string) string {
	if w.Metadata == nil {
		return ""
	}
	return w.Metadata[key]
}

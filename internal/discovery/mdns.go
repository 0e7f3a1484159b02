package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type watchfaces advertise
	ServiceType = "_watchface._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for watch discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default sync port
	DefaultPort = 9301

	// DefaultPath is the default sync endpoint
	DefaultPath = "/sync"
)

// TXT record keys
const (
	txtPath     = "path"
	txtPlatform = "platform"
	txtVersion  = "version"
	txtTLS      = "tls"
)

// Scanner handles mDNS watch discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForWatches discovers all watchfaces on the local network
func (s *Scanner) ScanForWatches() ([]*Watch, error) {
	return s.ScanForWatchesWithContext(context.Background())
}

// ScanForWatchesWithContext discovers watchfaces with a custom context
func (s *Scanner) ScanForWatchesWithContext(ctx context.Context) ([]*Watch, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu      sync.Mutex
		watches = make([]*Watch, 0)
		seen    = make(map[string]bool)
		done    = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			watch := parseServiceEntry(entry)
			if watch == nil {
				continue
			}
			mu.Lock()
			if !seen[watch.Name] {
				seen[watch.Name] = true
				watches = append(watches, watch)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once the browse context ends.
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Watch(nil), watches...), nil
}

// WaitForWatch waits for a specific watch by instance name
func (s *Scanner) WaitForWatch(name string) (*Watch, error) {
	return s.WaitForWatchWithContext(context.Background(), name)
}

// WaitForWatchWithContext waits for a specific watch with a custom context
func (s *Scanner) WaitForWatchWithContext(ctx context.Context, name string) (*Watch, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Watch, 1)

	go func() {
		for entry := range entries {
			watch := parseServiceEntry(entry)
			if watch != nil && strings.EqualFold(watch.Name, name) {
				select {
				case found <- watch:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case watch := <-found:
		return watch, nil
	case <-ctx.Done():
		select {
		case watch := <-found:
			return watch, nil
		default:
		}
		return nil, fmt.Errorf("watch %q not found within %s", name, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Watch.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Watch {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := parseTXT(entry.Text)

	path := metadata[txtPath]
	if path == "" {
		path = DefaultPath
	}

	return &Watch{
		Name:         unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Platform:     metadata[txtPlatform],
		Version:      metadata[txtVersion],
		TLS:          metadata[txtTLS] == "1",
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" TXT records. Keys without a value map to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}
	return metadata
}

// unescapeInstance undoes DNS-SD escaping of spaces in instance names.
func unescapeInstance(name string) string {
	return strings.ReplaceAll(name, `\ `, " ")
}

// ScanForWatches is a convenience function to scan with a custom timeout
func ScanForWatches(timeout time.Duration) ([]*Watch, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForWatches()
}

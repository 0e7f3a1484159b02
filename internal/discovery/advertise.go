package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// Announcement describes the service a watchface advertises.
type Announcement struct {
	Name     string // Instance name
	Port     int
	Path     string
	Platform string
	Version  string
	TLS      bool
}

// TXT returns the TXT records for the announcement.
func (a Announcement) TXT() []string {
	path := a.Path
	if path == "" {
		path = DefaultPath
	}
	tls := "0"
	if a.TLS {
		tls = "1"
	}
	txt := []string{
		txtPath + "=" + path,
		txtTLS + "=" + tls,
	}
	if a.Platform != "" {
		txt = append(txt, txtPlatform+"="+a.Platform)
	}
	if a.Version != "" {
		txt = append(txt, txtVersion+"="+a.Version)
	}
	return txt
}

// Advertiser keeps a watchface registered on mDNS until Shutdown.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the announcement on all interfaces.
func Advertise(a Announcement) (*Advertiser, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("mDNS instance name is required")
	}
	if a.Port <= 0 {
		return nil, fmt.Errorf("invalid port for mDNS announcement: %d", a.Port)
	}

	server, err := zeroconf.Register(a.Name, ServiceType, ServiceDomain, a.Port, a.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising watchface over mDNS",
		zap.String("instance", a.Name),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port),
		zap.Strings("txt", a.TXT()),
	)

	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the announcement.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("mDNS announcement withdrawn")
}

package server

import (
	"crypto/tls"
	"fmt"

	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// NewTLSConfig creates a TLS configuration from a certificate and key file
// pair. Both paths must be set.
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	if certPath == "" || keyPath == "" {
		return nil, fmt.Errorf("both certificate and key are required (cert=%q key=%q)", certPath, keyPath)
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// GetTLSInfo returns information about the TLS configuration for logging
func GetTLSInfo(config *tls.Config) map[string]interface{} {
	if config == nil {
		return map[string]interface{}{"enabled": false}
	}
	return map[string]interface{}{
		"enabled":      true,
		"min_version":  tls.VersionName(config.MinVersion),
		"certificates": len(config.Certificates),
	}
}

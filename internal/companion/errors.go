package companion

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the watch did not answer in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHandshake indicates the WebSocket upgrade failed
	ErrTypeHandshake
	// ErrTypeProtocol indicates an unreadable reply
	ErrTypeProtocol
	// ErrTypeRejected indicates the watch answered with a nack
	ErrTypeRejected
	// ErrTypeValidation indicates an invalid option value
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHandshake:
		return "Handshake Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ConfigError represents an error configuring a watch
type ConfigError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	Field      string    // Option name, for validation errors
	StatusCode int       // HTTP status of a failed handshake
	Err        error     // Underlying error (if any)
	WatchURL   string    // Sync endpoint (for context)
	Retryable  bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a dial or I/O error
func ClassifyNetworkError(err error, watchURL string) *ConfigError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &ConfigError{
			Type:      ErrTypeTimeout,
			Message:   "Watch did not respond in time",
			Err:       err,
			WatchURL:  watchURL,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ConfigError{
			Type:     ErrTypeDNS,
			Message:  fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:      err,
			WatchURL: watchURL,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &ConfigError{
			Type:      ErrTypeConnectionRefused,
			Message:   "Watch refused connection",
			Err:       err,
			WatchURL:  watchURL,
			Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, watchURL)
	}

	return &ConfigError{
		Type:      ErrTypeNetwork,
		Message:   "Network error occurred",
		Err:       err,
		WatchURL:  watchURL,
		Retryable: true,
	}
}

// NewValidationError creates a validation error for an option
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{
		Type:    ErrTypeValidation,
		Field:   field,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// IsRejected checks if the watch refused the message
func IsRejected(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeRejected
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Retryable
	}
	return false
}

// TroubleshootingHints returns user-facing advice for an error
func TroubleshootingHints(err error) []string {
	t, ok := errorType(err)
	if !ok {
		return []string{"An unexpected error occurred. Run with WATCHFACE_LOG_LEVEL=debug for details."}
	}

	switch t {
	case ErrTypeConnectionRefused:
		return []string{
			"Check that the watchface is running (watchface run)",
			"Check the sync port in the watch's config.yaml",
		}
	case ErrTypeTimeout, ErrTypeNetwork:
		return []string{
			"Check that this machine and the watch are on the same network",
			"Try watchface-cfg scan to find the watch's current address",
		}
	case ErrTypeDNS:
		return []string{"Use the watch's IP address instead of its hostname"}
	case ErrTypeHandshake:
		return []string{
			"Check the URL path (usually /sync)",
			"Use wss:// if the watch was started with a TLS certificate",
		}
	case ErrTypeProtocol, ErrTypeRejected:
		return []string{"Check that watchface and watchface-cfg are the same version"}
	case ErrTypeValidation:
		return []string{
			"Colors are #RRGGBB, 0xRRGGBB or a name (" + paletteHint() + ")",
		}
	default:
		return nil
	}
}

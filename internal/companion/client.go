package companion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a whole Send, dial included.
const DefaultTimeout = 10 * time.Second

// Client delivers settings messages to one watch.
type Client struct {
	url     string
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewClient creates a client for a sync endpoint URL (ws:// or wss://).
// A bare host:port gets the default scheme and path.
func NewClient(endpoint string) (*Client, error) {
	normalized, err := NormalizeURL(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		url: normalized,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 5 * time.Second,
		},
		timeout: DefaultTimeout,
	}, nil
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string {
	return c.url
}

// SetTimeout overrides DefaultTimeout. A non-positive d restores the
// default.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout = d
}

// NormalizeURL fills in the scheme and path of a sync endpoint.
func NormalizeURL(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", NewValidationError("watch", "no watch URL given")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "ws://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", NewValidationError("watch", fmt.Sprintf("invalid URL %q: %v", endpoint, err))
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", NewValidationError("watch", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return "", NewValidationError("watch", fmt.Sprintf("invalid URL %q: missing host", endpoint))
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/sync"
	}
	return u.String(), nil
}

// Send delivers one message and waits for the watch's acknowledgement. A
// nack is returned as a *ConfigError of type ErrTypeRejected together with
// the ack.
func (c *Client) Send(ctx context.Context, msg appmsg.Message) (*appmsg.Ack, error) {
	payload, err := msg.Encode()
	if err != nil {
		return nil, &ConfigError{Type: ErrTypeProtocol, Message: "failed to encode message", Err: err, WatchURL: c.url}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logging.Debug("Dialing watch", zap.String("url", c.url))
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return nil, &ConfigError{
				Type:       ErrTypeHandshake,
				Message:    fmt.Sprintf("WebSocket upgrade failed with HTTP %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
				Err:        err,
				WatchURL:   c.url,
			}
		}
		return nil, ClassifyNetworkError(err, c.url)
	}
	defer func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, ClassifyNetworkError(err, c.url)
	}
	logging.Info("Sent settings message",
		zap.String("url", c.url),
		zap.Strings("keys", msg.Keys()),
	)

	_, reply, err := conn.ReadMessage()
	if err != nil {
		return nil, ClassifyNetworkError(err, c.url)
	}

	var ack appmsg.Ack
	if err := json.Unmarshal(reply, &ack); err != nil {
		return nil, &ConfigError{Type: ErrTypeProtocol, Message: "unreadable reply from watch", Err: err, WatchURL: c.url}
	}

	if !ack.OK() {
		return &ack, &ConfigError{
			Type:     ErrTypeRejected,
			Message:  fmt.Sprintf("watch rejected message: %s", ack.Error),
			WatchURL: c.url,
		}
	}
	return &ack, nil
}

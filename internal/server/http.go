package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// Health is the /healthz response body.
type Health struct {
	Status      string `json:"status"`
	Platform    string `json:"platform,omitempty"`
	Version     string `json:"version,omitempty"`
	Connections int    `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Status:      "ok",
		Platform:    s.config.Platform,
		Version:     s.config.Version,
		Connections: s.GetActiveConnections(),
	})
}

// logUpgradeRequest logs the details of a WebSocket upgrade request
func logUpgradeRequest(req *http.Request) {
	headers := make(map[string]string)
	for key, values := range req.Header {
		headers[key] = strings.Join(values, ", ")
	}

	logging.Debug("WebSocket upgrade request details",
		zap.String("remote_addr", req.RemoteAddr),
		zap.String("host", req.Host),
		zap.String("path", req.URL.Path),
		zap.String("origin", req.Header.Get("Origin")),
		zap.String("user_agent", req.Header.Get("User-Agent")),
		zap.Any("headers", headers),
	)
}

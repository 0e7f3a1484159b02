package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// SyncPath is the WebSocket endpoint the companion connects to.
const SyncPath = "/sync"

// Dispatcher applies a decoded update and reports whether it was stored.
// It is called from connection goroutines.
type Dispatcher func(ctx context.Context, u *appmsg.Update) error

// Config holds the server configuration
type Config struct {
	Host        string
	Port        int
	CertPath    string // TLS certificate; empty serves plain ws://
	KeyPath     string // TLS private key
	AnalysisDir string // Directory to write message capture logs (empty = disabled)
	Platform    string // Reported by /healthz
	Version     string // Reported by /healthz
	Dispatch    Dispatcher
}

// Server accepts companion connections and forwards their updates.
type Server struct {
	config      *Config
	httpServer  *http.Server
	listener    net.Listener
	upgrader    websocket.Upgrader
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn // by connection ID
	analysisDir string
	metrics     *syncMetrics
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Dispatch == nil {
		return nil, errors.New("server: Dispatch is required")
	}

	s := &Server{
		config:      config,
		activeConns: make(map[string]*websocket.Conn),
		analysisDir: config.AnalysisDir,
		metrics:     newSyncMetrics(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The companion is a CLI, not a browser.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	return s, nil
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SyncPath, s.handleSync)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle(MetricsPath, s.metrics.handler())
	return mux
}

// Listen binds the listening socket. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	logging.Info("Sync server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Any("tls_info", GetTLSInfo(s.httpServer.TLSConfig)),
	)
	return nil
}

// Serve accepts connections until Shutdown is called. Listen must have
// been called first.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server: Serve called before Listen")
	}

	var err error
	if s.TLS() {
		err = s.httpServer.ServeTLS(s.listener, "", "")
	} else {
		err = s.httpServer.Serve(s.listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound port, or 0 before Listen.
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// TLS reports whether the server terminates TLS itself.
func (s *Server) TLS() bool {
	return s.httpServer.TLSConfig != nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down sync server...")

	// http.Server.Shutdown does not track hijacked connections.
	s.mu.Lock()
	for id, conn := range s.activeConns {
		logging.Info("Closing active connection",
			zap.String("conn_id", id),
			zap.String("remote_addr", conn.RemoteAddr().String()),
		)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "watchface shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	s.mu.Unlock()

	err := s.httpServer.Shutdown(ctx)

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	return err
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(id string, conn *websocket.Conn) {
	s.mu.Lock()
	s.activeConns[id] = conn
	s.mu.Unlock()
	s.metrics.connections.Inc()
}

func (s *Server) untrack(id string) {
	s.mu.Lock()
	delete(s.activeConns, id)
	s.mu.Unlock()
	s.metrics.connections.Dec()
}

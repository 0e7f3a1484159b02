package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Time allowed for the event loop to store an update
	dispatchWait = 5 * time.Second
)

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	logUpgradeRequest(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	remoteAddr := r.RemoteAddr
	connID := uuid.NewString()
	s.track(connID, conn)
	defer func() {
		_ = conn.Close()
		s.untrack(connID)
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	logging.LogConnection(remoteAddr, "websocket_upgraded")
	logging.Debug("Connection registered",
		zap.String("conn_id", connID),
		zap.String("remote_addr", remoteAddr),
	)

	if err := s.serveConn(r.Context(), conn, remoteAddr); err != nil {
		logging.Error("WebSocket connection error",
			zap.String("conn_id", connID),
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
	}
}

// serveConn runs the receive loop for one companion connection.
func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn, remoteAddr string) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go keepAlive(conn, stopPing)

	messageNum := 0
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed by companion",
					zap.String("remote_addr", remoteAddr),
				)
				return nil
			}
			if websocket.IsUnexpectedCloseError(err) {
				return err
			}
			logging.Info("Connection closed or error reading message",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return nil
		}

		messageNum++
		SaveMessageToAnalysis(remoteAddr, messageNum, msgType, data, s.analysisDir)

		ack := s.process(ctx, remoteAddr, data)

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ack); err != nil {
			return fmt.Errorf("failed to write ack: %w", err)
		}
	}
}

// process decodes one payload and dispatches it, returning the reply.
func (s *Server) process(ctx context.Context, remoteAddr string, data []byte) *appmsg.Ack {
	update, err := appmsg.Decode(data)
	if err != nil {
		logging.Warn("Rejecting sync message",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
		logging.LogRawBytes("Rejected payload", data)
		s.metrics.observe(resultRejected, nil, nil)
		return &appmsg.Ack{Status: appmsg.StatusNack, Error: err.Error()}
	}

	applied := update.Present()
	logging.LogSyncMessage(remoteAddr, data, applied, update.Malformed)

	dctx, cancel := context.WithTimeout(ctx, dispatchWait)
	defer cancel()
	start := time.Now()
	err = s.config.Dispatch(dctx, update)
	s.metrics.dispatch.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.observe(resultFailed, nil, update.Malformed)
		logging.Error("Failed to apply sync message",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
		return &appmsg.Ack{
			Status:  appmsg.StatusNack,
			Ignored: update.Malformed,
			Error:   err.Error(),
		}
	}

	s.metrics.observe(resultAck, applied, update.Malformed)
	return &appmsg.Ack{
		Status:  appmsg.StatusAck,
		Applied: applied,
		Ignored: update.Malformed,
	}
}

// keepAlive pings the peer until stop is closed.
func keepAlive(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug("Ping failed", zap.Error(err))
				}
				return
			}
		}
	}
}

// MessageAnalysis represents a captured message for analysis
type MessageAnalysis struct {
	Timestamp  time.Time       `json:"timestamp"`
	MessageNum int             `json:"message_num"`
	RemoteAddr string          `json:"remote_addr"`
	Direction  string          `json:"direction"`
	FrameType  string          `json:"frame_type"`
	PayloadLen int             `json:"payload_length"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	PayloadRaw string          `json:"payload_raw,omitempty"`
}

// SaveMessageToAnalysis appends a received message to the capture file in
// analysisDir. An empty analysisDir disables capture.
func SaveMessageToAnalysis(remoteAddr string, messageNum int, msgType int, data []byte, analysisDir string) {
	if analysisDir == "" {
		return
	}

	timestamp := time.Now()
	filename := filepath.Join(analysisDir, fmt.Sprintf("capture-%s.jsonl",
		timestamp.Format("20060102")))

	analysis := MessageAnalysis{
		Timestamp:  timestamp,
		MessageNum: messageNum,
		RemoteAddr: remoteAddr,
		Direction:  "companion->watch",
		FrameType:  frameTypeString(msgType),
		PayloadLen: len(data),
	}
	if json.Valid(data) {
		analysis.Payload = json.RawMessage(data)
	} else {
		analysis.PayloadRaw = string(data)
	}

	if err := os.MkdirAll(analysisDir, 0755); err != nil {
		logging.Error("Failed to create analysis directory",
			zap.String("dir", analysisDir),
			zap.Error(err),
		)
		return
	}

	// Append to JSONL file (JSON Lines format - one JSON object per line)
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logging.Error("Failed to open analysis file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(analysis)
	if err != nil {
		logging.Error("Failed to marshal message analysis", zap.Error(err))
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		logging.Error("Failed to write analysis record",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func frameTypeString(msgType int) string {
	switch msgType {
	case websocket.TextMessage:
		return "text"
	case websocket.BinaryMessage:
		return "binary"
	default:
		return fmt.Sprintf("type-%d", msgType)
	}
}

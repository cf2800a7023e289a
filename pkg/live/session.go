package live

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// session is one live connection waiting for a view's future to settle.
type session struct {
	id     string
	conn   *websocket.Conn
	cfg    HandlerConfig
	logger *slog.Logger

	mu     sync.Mutex // guards writes
	closed atomic.Bool
	done   chan struct{}
}

func newSession(id string, conn *websocket.Conn, cfg HandlerConfig, logger *slog.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("view_id", id),
		done:   make(chan struct{}),
	}
}

// readLoop reads frames until the connection drops. The client only
// ever sends pings after its hello, so the loop is heartbeat handling
// plus close detection.
func (s *session) readLoop() {
	defer s.close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case FramePing:
			s.writeFrame(NewFrame(FramePong, frame.Payload))
		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

// heartbeatLoop pings the client so proxies keep the connection open
// while the future is pending.
func (s *session) heartbeatLoop() {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.writeFrame(NewFrame(FramePing, nil)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// sendSwap sends the settled markup to the client.
func (s *session) sendSwap(swap Swap) error {
	frame, err := EncodeSwap(swap)
	if err != nil {
		return err
	}
	return s.writeFrame(frame)
}

// sendError sends an error message to the client.
func (s *session) sendError(msg string) {
	if err := s.writeFrame(NewFrame(FrameError, []byte(msg))); err != nil {
		s.logger.Error("error frame write failed", "error", err)
	}
}

func (s *session) writeFrame(frame *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return websocket.ErrCloseSent
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

// closeNormally tells the client the exchange is complete before
// dropping the connection.
func (s *session) closeNormally() {
	s.mu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.mu.Unlock()

	s.close()
}

func (s *session) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	s.conn.Close()
}

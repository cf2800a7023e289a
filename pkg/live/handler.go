package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gateview-dev/gateview/pkg/vdom"
)

// HandlerConfig configures the live connection handler.
type HandlerConfig struct {
	// CheckOrigin validates the Origin header during the upgrade.
	// Default: same-origin (the gorilla default).
	CheckOrigin func(r *http.Request) bool

	// HandshakeTimeout bounds the wait for the client's hello frame.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is how often the server pings. Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ReadTimeout bounds each read. Must exceed HeartbeatInterval.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds each write. Default: 10 seconds.
	WriteTimeout time.Duration

	// Logger for connection activity. Default: slog.Default().
	Logger *slog.Logger
}

func (c *HandlerConfig) applyDefaults() {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Handler upgrades connections from pages that rendered in the
// authorizing state. The client's hello frame names the view it is
// waiting on; when that view's future settles, the handler re-renders
// the view and pushes the markup in a swap frame, then closes.
func Handler(m *Manager, cfg HandlerConfig) http.Handler {
	cfg.applyDefaults()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     cfg.CheckOrigin,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.Logger.Error("websocket upgrade failed", "error", err)
			return
		}

		viewID, err := readHello(conn, cfg.HandshakeTimeout)
		if err != nil {
			cfg.Logger.Error("hello failed", "error", err)
			conn.Close()
			return
		}

		view, ok := m.claim(viewID)
		if !ok {
			s := newSession(viewID, conn, cfg, cfg.Logger)
			s.sendError("unknown or expired view")
			s.closeNormally()
			return
		}

		serve(view, conn, cfg)
	})
}

// readHello reads the client's hello frame and returns the view ID.
func readHello(conn *websocket.Conn, timeout time.Duration) (string, error) {
	conn.SetReadDeadline(time.Now().Add(timeout))

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}
	frame, err := DecodeFrame(msg)
	if err != nil {
		return "", err
	}
	if frame.Type != FrameHello {
		return "", ErrExpectedHello
	}
	return string(frame.Payload), nil
}

// serve holds the connection until the view's future settles, then
// pushes the final markup.
func serve(view *pendingView, conn *websocket.Conn, cfg HandlerConfig) {
	s := newSession(view.id, conn, cfg, cfg.Logger)
	go s.readLoop()
	go s.heartbeatLoop()

	select {
	case <-view.future.Done():
	case <-s.done:
		return
	}

	outcome, html, err := view.render()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		s.sendError("render failed")
		s.closeNormally()
		return
	}

	if err := s.sendSwap(Swap{ViewID: view.id, Outcome: outcome.String(), HTML: html}); err != nil {
		s.logger.Error("swap write failed", "error", err)
		s.close()
		return
	}

	s.logger.Debug("view swapped", "outcome", outcome.String())
	s.closeNormally()
}

// Placeholder wraps authorizing content in the region the client swaps
// once the future settles.
func Placeholder(viewID string, content *vdom.Node) *vdom.Node {
	return vdom.Div(vdom.Data("gateview-live", viewID), content)
}

// ScriptTag returns the script element that loads the live client.
// endpoint is where Handler is mounted; it is exposed to the client as
// a data attribute.
func ScriptTag(scriptPath, endpoint string) *vdom.Node {
	return vdom.Script(
		vdom.Src(scriptPath),
		vdom.Data("gateview-endpoint", endpoint),
		vdom.AttrOf("defer", true),
	)
}

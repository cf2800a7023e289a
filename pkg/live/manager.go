package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/gate"
)

// RenderFunc re-renders a gated view once its authentication future has
// settled. It returns the final outcome and the markup that replaces
// the placeholder region.
type RenderFunc func() (gate.Outcome, string, error)

// pendingView is a view that rendered in the authorizing state and is
// waiting for its future to settle.
type pendingView struct {
	id      string
	future  *authstate.Future
	render  RenderFunc
	created time.Time
}

// Manager tracks views that rendered while their authentication future
// was still pending. Each registration gets a view ID the page embeds;
// the client connects back with the ID and receives the settled markup.
// Unclaimed registrations expire after a TTL. Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	pending map[string]*pendingView
	ttl     time.Duration
	logger  *slog.Logger
	closed  bool
	done    chan struct{}
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// TTL is how long an unclaimed registration is kept.
	// Default: 2 minutes.
	TTL time.Duration

	// SweepInterval is how often expired registrations are removed.
	// Default: 30 seconds.
	SweepInterval time.Duration

	// Logger for sweep activity. Default: slog.Default().
	Logger *slog.Logger
}

// NewManager creates a manager and starts its sweep loop.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.TTL == 0 {
		cfg.TTL = 2 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	m := &Manager{
		pending: make(map[string]*pendingView),
		ttl:     cfg.TTL,
		logger:  cfg.Logger,
		done:    make(chan struct{}),
	}

	go m.sweepLoop(cfg.SweepInterval)
	return m
}

// Register records a pending view and returns its ID. The render
// callback runs after the future settles, on the connection's
// goroutine.
func (m *Manager) Register(future *authstate.Future, render RenderFunc) string {
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return id
	}
	m.pending[id] = &pendingView{
		id:      id,
		future:  future,
		render:  render,
		created: time.Now(),
	}
	return id
}

// claim removes and returns the pending view for an ID.
func (m *Manager) claim(id string) (*pendingView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	return view, ok
}

// Len returns the number of unclaimed registrations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Close stops the sweep loop and drops all registrations.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.pending = make(map[string]*pendingView)
	close(m.done)
}

// sweepLoop periodically removes expired registrations.
func (m *Manager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, view := range m.pending {
		if view.created.Before(cutoff) {
			delete(m.pending, id)
			m.logger.Debug("pending view expired", "view_id", id)
		}
	}
}

package policysrc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gateview-dev/gateview/pkg/authz"
)

// Overlay merges manifest entries into requirement resolution. Pages
// keep their in-code specs; matching manifest entries append to them.
// It satisfies gate.RequirementSource.
type Overlay struct {
	manifest *Manifest
	resolver *authz.Resolver
}

// NewOverlay creates an overlay over the resolver.
func NewOverlay(manifest *Manifest, resolver *authz.Resolver) *Overlay {
	return &Overlay{
		manifest: manifest,
		resolver: resolver,
	}
}

// Requirements resolves the declared specs plus the manifest entries
// covering the key, memoized by the underlying resolver. Declared specs
// evaluate first.
func (o *Overlay) Requirements(key string, declared []authz.Spec) ([]authz.Requirement, error) {
	extra := o.manifest.Specs(key)
	if len(extra) == 0 {
		return o.resolver.Requirements(key, declared)
	}

	merged := make([]authz.Spec, 0, len(declared)+len(extra))
	merged = append(merged, declared...)
	merged = append(merged, extra...)
	return o.resolver.Requirements(key, merged)
}

// Reload fetches the source, replaces the manifest, and drops the
// resolver's memoized requirements so the next request resolves against
// the new entries. On fetch or parse errors the previous entries stay
// in effect.
func (o *Overlay) Reload(ctx context.Context, src Source) error {
	if err := o.manifest.Load(ctx, src); err != nil {
		return err
	}
	o.resolver.Reset()
	return nil
}

// Manifest returns the overlay's manifest.
func (o *Overlay) Manifest() *Manifest {
	return o.manifest
}

// Reloader refreshes an overlay from its source on an interval. A
// failed refresh keeps the previous entries and is retried on the next
// tick. Callers run the first load themselves so startup errors
// surface synchronously.
type Reloader struct {
	overlay *Overlay
	source  Source
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewReloader starts a reloader for the overlay and source.
func NewReloader(overlay *Overlay, source Source, interval time.Duration, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reloader{
		overlay: overlay,
		source:  source,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go r.loop(interval)
	return r
}

// Stop halts the refresh loop. Safe to call more than once.
func (r *Reloader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
}

func (r *Reloader) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.overlay.Reload(context.Background(), r.source); err != nil {
				r.logger.Warn("requirement manifest reload failed",
					"source", r.source.String(),
					"error", err)
				continue
			}
			r.logger.Debug("requirement manifest reloaded",
				"source", r.source.String(),
				"patterns", r.overlay.Manifest().Len())
		case <-r.done:
			return
		}
	}
}

package gate

import (
	"context"
	"log/slog"
)

// Observation describes one gate render pass.
type Observation struct {
	// Page is the pattern of the gated page.
	Page string

	// Path is the request path that matched, if known.
	Path string

	// Outcome is the branch taken.
	Outcome Outcome

	// Reason names the requirement that denied, for NotAuthorized
	// outcomes.
	Reason string

	// Subject is the authenticated principal's subject, or "" when
	// anonymous or still authorizing.
	Subject string
}

// Observer sees the outcome of every gate render pass. Implementations
// must be safe for concurrent use and must not block the render path.
type Observer interface {
	Observe(ctx context.Context, o Observation)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(ctx context.Context, o Observation)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, o Observation) {
	f(ctx, o)
}

// Observers fans an observation out to several observers in order.
func Observers(obs ...Observer) Observer {
	return ObserverFunc(func(ctx context.Context, o Observation) {
		for _, ob := range obs {
			if ob != nil {
				ob.Observe(ctx, o)
			}
		}
	})
}

// SlogObserver logs every observation. Authorized and authorizing
// outcomes log at debug, denials at info.
func SlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return ObserverFunc(func(ctx context.Context, o Observation) {
		attrs := []any{
			"page", o.Page,
			"path", o.Path,
			"outcome", o.Outcome.String(),
			"subject", o.Subject,
		}
		if o.Outcome == OutcomeNotAuthorized {
			attrs = append(attrs, "reason", o.Reason)
			logger.InfoContext(ctx, "gate denied", attrs...)
			return
		}
		logger.DebugContext(ctx, "gate outcome", attrs...)
	})
}

package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// Errors reported by New for invalid arguments.
var (
	ErrNilPage     = errors.New("gate: route match must carry a page")
	ErrNilBody     = errors.New("gate: page must have a body")
	ErrNilFuture   = errors.New("gate: authentication future must not be nil")
	ErrNilResolver = errors.New("gate: resolver must not be nil")
)

// RequirementSource turns a page's requirement specs into evaluable
// requirements. *authz.Resolver satisfies it; policysrc.Overlay wraps
// one to merge manifest entries in.
type RequirementSource interface {
	Requirements(key string, specs []authz.Spec) ([]authz.Requirement, error)
}

// Config configures a RouteView.
type Config struct {
	// Resolver builds and memoizes the page's requirements. Required.
	Resolver RequirementSource

	// Authorizing produces the content shown while the future is
	// pending. Defaults to DefaultAuthorizing.
	Authorizing func() *vdom.Node

	// NotAuthorized produces the content shown when a requirement
	// denies. It receives the resolved state. Defaults to
	// DefaultNotAuthorized.
	NotAuthorized func(state authstate.State) *vdom.Node

	// Layout wraps fallback content, and authorized pages that declare
	// no layout of their own.
	Layout func(m route.Match, content *vdom.Node) *vdom.Node

	// Observer sees the outcome of every render pass.
	Observer Observer
}

// RouteView gates a matched page behind its declared authorization
// requirements. It renders exactly one of three branches: the pending
// content while the authentication future is unsettled, the page itself
// once every requirement passes, or the denial content otherwise. The
// future is made visible to all three branches' descendants; when an
// ancestor already provides one, that one is used and no second
// provider is introduced.
//
// A RouteView is built per request and renders against the state of its
// future at that moment. A later settle does not mutate an already
// produced tree; the host triggers a fresh render pass instead.
type RouteView struct {
	ctx    context.Context
	match  route.Match
	future *authstate.Future
	reqs   []authz.Requirement
	cfg    Config
}

// New creates the gate for a matched page. The match must carry a page
// with a body, and future and cfg.Resolver must be non-nil; violations
// are reported immediately rather than degrading to a blank render.
// Requirement specs are resolved here, once per page pattern, so a
// misconfigured page fails loudly before anything renders.
func New(ctx context.Context, match route.Match, future *authstate.Future, cfg Config) (*RouteView, error) {
	if match.Page == nil {
		return nil, ErrNilPage
	}
	if match.Page.Body == nil {
		return nil, ErrNilBody
	}
	if future == nil {
		return nil, ErrNilFuture
	}
	if cfg.Resolver == nil {
		return nil, ErrNilResolver
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reqs, err := cfg.Resolver.Requirements(match.Page.Path, match.Page.Requirements)
	if err != nil {
		return nil, fmt.Errorf("gate: resolving requirements for %s: %w", match.Page.Path, err)
	}

	return &RouteView{
		ctx:    ctx,
		match:  match,
		future: future,
		reqs:   reqs,
		cfg:    cfg,
	}, nil
}

// Render implements vdom.Component. When no ancestor provides an
// authentication future, the view's own future is provided to the
// subtree; an ambient future is used unchanged.
func (v *RouteView) Render(sc *vdom.Scope) *vdom.Node {
	future, ambient := authstate.FromScope(sc)
	if !ambient {
		future = v.future
	}

	content := v.dispatch(future)
	if ambient {
		return content
	}
	return authstate.Provide(future, content)
}

// dispatch takes the three-way branch for the future's current state.
func (v *RouteView) dispatch(future *authstate.Future) *vdom.Node {
	state, err := future.Peek()
	if errors.Is(err, authstate.ErrPending) {
		v.observe(OutcomeAuthorizing, authstate.Anonymous(), "")
		return v.renderAuthorizing()
	}
	if err != nil {
		// A failed future carries no identity. Evaluate as anonymous;
		// public pages still render.
		state = authstate.Anonymous()
	}

	decision := v.evaluate(state)
	if decision.Allowed {
		v.observe(OutcomeAuthorized, state, "")
		return v.renderPage()
	}

	v.observe(OutcomeNotAuthorized, state, decision.Reason)
	return v.renderNotAuthorized(state)
}

// evaluate checks the state against the page's requirements, failing
// closed on evaluation errors.
func (v *RouteView) evaluate(state authstate.State) authz.Decision {
	decision, err := authz.Evaluate(v.ctx, state, v.reqs)
	if err != nil {
		return authz.Decision{Reason: fmt.Sprintf("evaluation failed: %v", err)}
	}
	return decision
}

func (v *RouteView) renderPage() *vdom.Node {
	content := vdom.Comp(v.match.Page.Body(v.match))

	if layout := v.match.Page.Layout; layout != nil {
		return layout(v.match, content)
	}
	return v.applyLayout(content)
}

func (v *RouteView) renderAuthorizing() *vdom.Node {
	produce := v.cfg.Authorizing
	if produce == nil {
		produce = DefaultAuthorizing
	}
	return v.applyLayout(produce())
}

func (v *RouteView) renderNotAuthorized(state authstate.State) *vdom.Node {
	produce := v.cfg.NotAuthorized
	if produce == nil {
		produce = DefaultNotAuthorized
	}
	return v.applyLayout(produce(state))
}

func (v *RouteView) applyLayout(content *vdom.Node) *vdom.Node {
	if v.cfg.Layout != nil {
		return v.cfg.Layout(v.match, content)
	}
	return content
}

func (v *RouteView) observe(outcome Outcome, state authstate.State, reason string) {
	if v.cfg.Observer == nil {
		return
	}
	v.cfg.Observer.Observe(v.ctx, Observation{
		Page:    v.match.Page.Path,
		Path:    v.match.Path,
		Outcome: outcome,
		Reason:  reason,
		Subject: state.Subject(),
	})
}

package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// AuthView gates an arbitrary fragment of a page behind requirements,
// using the authentication future an ancestor provided. Unlike
// RouteView it has no future of its own: rendering one outside a
// provider subtree is a composition bug and panics.
//
// Place it inside a RouteView (or any authstate.Provide subtree) to
// show or hide parts of an already authorized page:
//
//	gate.NewAuthView(ctx, []authz.Requirement{authz.Role("admin")}, gate.AuthViewConfig{
//	    Authorized: func(state authstate.State) *vdom.Node {
//	        return vdom.A(vdom.Href("/admin"), vdom.Text("Admin"))
//	    },
//	})
type AuthView struct {
	ctx  context.Context
	reqs []authz.Requirement
	cfg  AuthViewConfig
}

// AuthViewConfig configures an AuthView.
type AuthViewConfig struct {
	// Authorized produces the content shown when every requirement
	// passes. Required.
	Authorized func(state authstate.State) *vdom.Node

	// NotAuthorized produces the content shown on denial. Defaults to
	// rendering nothing.
	NotAuthorized func(state authstate.State) *vdom.Node

	// Authorizing produces the content shown while the future is
	// pending. Defaults to rendering nothing.
	Authorizing func() *vdom.Node

	// Observer sees the outcome of every render pass.
	Observer Observer

	// Label names this view in observations.
	Label string
}

// NewAuthView creates a fragment gate. The Authorized content producer
// is required; its absence is reported immediately.
func NewAuthView(ctx context.Context, reqs []authz.Requirement, cfg AuthViewConfig) (*AuthView, error) {
	if cfg.Authorized == nil {
		return nil, errors.New("gate: AuthView requires Authorized content")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &AuthView{ctx: ctx, reqs: reqs, cfg: cfg}, nil
}

// Render implements vdom.Component.
func (v *AuthView) Render(sc *vdom.Scope) *vdom.Node {
	future, ok := authstate.FromScope(sc)
	if !ok {
		panic("gate: AuthView rendered outside an authentication provider subtree")
	}

	state, err := future.Peek()
	if errors.Is(err, authstate.ErrPending) {
		v.observe(OutcomeAuthorizing, authstate.Anonymous(), "")
		if v.cfg.Authorizing != nil {
			return v.cfg.Authorizing()
		}
		return vdom.Nothing()
	}
	if err != nil {
		state = authstate.Anonymous()
	}

	decision, err := authz.Evaluate(v.ctx, state, v.reqs)
	if err != nil {
		decision = authz.Decision{Reason: fmt.Sprintf("evaluation failed: %v", err)}
	}

	if decision.Allowed {
		v.observe(OutcomeAuthorized, state, "")
		return v.cfg.Authorized(state)
	}

	v.observe(OutcomeNotAuthorized, state, decision.Reason)
	if v.cfg.NotAuthorized != nil {
		return v.cfg.NotAuthorized(state)
	}
	return vdom.Nothing()
}

func (v *AuthView) observe(outcome Outcome, state authstate.State, reason string) {
	if v.cfg.Observer == nil {
		return
	}
	v.cfg.Observer.Observe(v.ctx, Observation{
		Page:    v.cfg.Label,
		Outcome: outcome,
		Reason:  reason,
		Subject: state.Subject(),
	})
}

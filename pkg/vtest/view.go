package vtest

import (
	"context"
	"testing"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/gate"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// ViewBuilder assembles a gated route view for tests without the HTTP
// plumbing. Unset pieces get sensible defaults: an already-resolved
// anonymous future, a resolver with no policy registry, and the page's
// own path as the request path.
//
// Example:
//
//	html := vtest.NewView(page).
//	    WithPrincipal(&authstate.Principal{Subject: "alice", Roles: []string{"admin"}}).
//	    WithParam("id", "42").
//	    Render(t)
type ViewBuilder struct {
	page   *route.Page
	params route.Params
	path   string
	future *authstate.Future
	cfg    gate.Config
}

// NewView creates a builder for the given page.
func NewView(page *route.Page) *ViewBuilder {
	return &ViewBuilder{
		page:   page,
		params: route.Params{},
	}
}

// WithParam adds a route parameter value.
func (b *ViewBuilder) WithParam(name, value string) *ViewBuilder {
	b.params[name] = value
	return b
}

// WithPath overrides the request path. Defaults to the page's pattern.
func (b *ViewBuilder) WithPath(path string) *ViewBuilder {
	b.path = path
	return b
}

// WithFuture supplies the authentication future the gate waits on.
func (b *ViewBuilder) WithFuture(future *authstate.Future) *ViewBuilder {
	b.future = future
	return b
}

// WithState supplies an already-resolved authentication state.
func (b *ViewBuilder) WithState(state authstate.State) *ViewBuilder {
	b.future = authstate.ResolvedFuture(state)
	return b
}

// WithPrincipal supplies an already-resolved authenticated principal.
func (b *ViewBuilder) WithPrincipal(p *authstate.Principal) *ViewBuilder {
	b.future = authstate.ResolvedFuture(authstate.State{Principal: p})
	return b
}

// Pending supplies an unsettled future, so the view renders its
// authorizing state. Use WithFuture to keep a handle for settling it.
func (b *ViewBuilder) Pending() *ViewBuilder {
	b.future = authstate.NewFuture()
	return b
}

// WithResolver sets the requirement source the gate resolves specs with.
func (b *ViewBuilder) WithResolver(src gate.RequirementSource) *ViewBuilder {
	b.cfg.Resolver = src
	return b
}

// WithConfig replaces the whole gate configuration. Call before the
// other With* config methods if you need both.
func (b *ViewBuilder) WithConfig(cfg gate.Config) *ViewBuilder {
	b.cfg = cfg
	return b
}

// Build constructs the route view, failing the test on error.
func (b *ViewBuilder) Build(t testing.TB) *gate.RouteView {
	t.Helper()
	future := b.future
	if future == nil {
		future = authstate.ResolvedFuture(authstate.Anonymous())
	}
	cfg := b.cfg
	if cfg.Resolver == nil {
		cfg.Resolver = authz.NewResolver(nil)
	}
	path := b.path
	if path == "" && b.page != nil {
		path = b.page.Path
	}
	match := route.Match{Page: b.page, Params: b.params, Path: path}
	view, err := gate.New(context.Background(), match, future, cfg)
	if err != nil {
		t.Fatalf("building route view: %v", err)
	}
	return view
}

// Render builds the view and returns its rendered HTML.
func (b *ViewBuilder) Render(t testing.TB) string {
	t.Helper()
	return RenderToString(vdom.Comp(b.Build(t)))
}

// Flow drives a gated view through the pending-to-settled transition:
// render while the future is unsettled, settle it, render again.
//
// Example:
//
//	flow := vtest.NewFlow(t, page, gate.Config{})
//	pending := flow.Pending(t) // contains the authorizing fallback
//	flow.Resolve(authstate.State{Principal: admin})
//	settled := flow.Settled(t) // now contains the page body
type Flow struct {
	view   *gate.RouteView
	future *authstate.Future
}

// NewFlow builds a view over a fresh unsettled future.
func NewFlow(t testing.TB, page *route.Page, cfg gate.Config) *Flow {
	t.Helper()
	future := authstate.NewFuture()
	view := NewView(page).WithFuture(future).WithConfig(cfg).Build(t)
	return &Flow{view: view, future: future}
}

// Future returns the underlying future for direct settling.
func (f *Flow) Future() *authstate.Future {
	return f.future
}

// View returns the built route view.
func (f *Flow) View() *gate.RouteView {
	return f.view
}

// Pending renders the view and fails the test if the future has
// already been settled.
func (f *Flow) Pending(t testing.TB) string {
	t.Helper()
	if f.future.Resolved() {
		t.Fatalf("future already settled, pending render is meaningless")
	}
	return f.render()
}

// Resolve settles the future with the given state.
func (f *Flow) Resolve(state authstate.State) {
	f.future.Resolve(state)
}

// Fail settles the future with an error. The gate treats a failed
// future as an anonymous viewer.
func (f *Flow) Fail(err error) {
	f.future.Fail(err)
}

// Settled renders the view and fails the test if the future is still
// pending.
func (f *Flow) Settled(t testing.TB) string {
	t.Helper()
	if !f.future.Resolved() {
		t.Fatalf("future still pending, call Resolve or Fail first")
	}
	return f.render()
}

func (f *Flow) render() string {
	return RenderToString(vdom.Comp(f.view))
}

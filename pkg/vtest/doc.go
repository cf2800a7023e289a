// Package vtest provides testing helpers for gated route views.
//
// It removes the HTTP and websocket plumbing from view tests: build a
// view with a fluent builder, render it to HTML, and assert on the
// output with focused helpers.
//
// # Quick Start
//
//	func TestDashboard_Admin(t *testing.T) {
//	    html := vtest.NewView(dashboardPage).
//	        WithPrincipal(&authstate.Principal{Subject: "alice", Roles: []string{"admin"}}).
//	        Render(t)
//	    if !strings.Contains(html, "Dashboard") {
//	        t.Error("missing dashboard content")
//	    }
//	}
//
// # Fluent View Builder
//
// NewView starts a builder that fills in defaults for anything left
// unset: an already-resolved anonymous future, a requirement resolver
// with no policy registry, and the page's own pattern as the request
// path.
//
//	view := vtest.NewView(page).
//	    WithParam("id", "42").
//	    WithState(authstate.Anonymous()).
//	    Build(t)
//
// # Lifecycle Flows
//
// Flow exercises the pending-to-settled transition a live viewer goes
// through: the view first renders its authorizing state, then the
// future settles and the view renders the final outcome.
//
//	flow := vtest.NewFlow(t, page, gate.Config{})
//	pending := flow.Pending(t)   // authorizing content
//	flow.Resolve(authstate.State{Principal: admin})
//	settled := flow.Settled(t)   // authorized or denied content
//
// # Render Assertions
//
// The Expect* helpers render a node and report a test error carrying
// the (truncated) HTML when the assertion fails:
//
//	vtest.ExpectContains(t, node, "Welcome Admin")
//	vtest.ExpectNotContains(t, node, "Sign in")
//	vtest.ExpectElement(t, node, "nav")
//	vtest.ExpectAttribute(t, node, "class", "active")
package vtest

// Package gateview renders routed views behind authorization gates.
//
// A page declares its authorization requirements next to its route
// pattern; the gate resolves them once, waits on the request's
// authentication state, and renders exactly one of three branches:
// authorizing content while the state is pending, the page itself when
// every requirement passes, or denial content otherwise. Pages that
// rendered while authentication was still pending get the settled
// outcome pushed over a websocket.
//
// This is the recommended import for applications:
//
//	import "github.com/gateview-dev/gateview"
//
// Usage:
//
//	app := gateview.New(gateview.Config{Source: source})
//	app.MustRegister(&gateview.Page{
//	    Path:         "/dashboard",
//	    Body:         dashboardBody,
//	    Requirements: []gateview.Spec{{Kind: gateview.KindRole, Value: "admin"}},
//	})
//	app.Run(":8080")
package gateview

import (
	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/gate"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// =============================================================================
// Routing (re-export from pkg/route)
// =============================================================================

// Page describes a routable view and its authorization requirements.
type Page = route.Page

// Match pairs a matched page with its extracted parameters.
type Match = route.Match

// Params are the route parameter values extracted from a URL.
type Params = route.Params

// Registry is an ordered collection of pages.
type Registry = route.Registry

// =============================================================================
// Nodes (re-export from pkg/vdom)
// =============================================================================

// Component is anything that can render to a Node.
type Component = vdom.Component

// Node is a node in the rendered tree.
type Node = vdom.Node

// Scope carries values down the render tree.
type Scope = vdom.Scope

// =============================================================================
// Authentication state (re-export from pkg/authstate)
// =============================================================================

// State is a resolved authentication state.
type State = authstate.State

// Principal is an authenticated identity.
type Principal = authstate.Principal

// Future is the single-assignment container for a state still being
// determined.
type Future = authstate.Future

// Source produces the authentication state for a request.
type Source = authstate.Source

// Anonymous returns the unauthenticated state.
var Anonymous = authstate.Anonymous

// StaticSource yields the same resolved state for every request.
var StaticSource = authstate.StaticSource

// StateFromScope reads the resolved authentication state a gate
// provided to the subtree. Page bodies use this to vary content by
// identity.
var StateFromScope = authstate.StateFromScope

// =============================================================================
// Requirements (re-export from pkg/authz)
// =============================================================================

// Spec is the declarative form of an authorization requirement.
type Spec = authz.Spec

// PolicyRegistry holds named policy functions for policy specs.
type PolicyRegistry = authz.PolicyRegistry

// Requirement spec kinds.
const (
	KindAuthenticated = authz.KindAuthenticated
	KindRole          = authz.KindRole
	KindAnyRole       = authz.KindAnyRole
	KindPermission    = authz.KindPermission
	KindPolicy        = authz.KindPolicy
)

// =============================================================================
// Gate outcomes (re-export from pkg/gate)
// =============================================================================

// Outcome is the branch a gate render pass took.
type Outcome = gate.Outcome

// Outcome values.
const (
	OutcomeAuthorizing   = gate.OutcomeAuthorizing
	OutcomeAuthorized    = gate.OutcomeAuthorized
	OutcomeNotAuthorized = gate.OutcomeNotAuthorized
)

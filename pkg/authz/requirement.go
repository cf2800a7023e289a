package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/gateview-dev/gateview/pkg/authstate"
)

// Requirement decides whether an authentication state satisfies it.
// Implementations must be safe for concurrent use.
type Requirement interface {
	// Allow reports whether the state satisfies the requirement. An
	// error means the requirement could not be evaluated, not that it
	// was denied.
	Allow(ctx context.Context, state authstate.State) (bool, error)

	// String describes the requirement for logs and denial reasons.
	String() string
}

// RequirementFunc is a function adapter for Requirement.
type RequirementFunc struct {
	Fn   func(ctx context.Context, state authstate.State) (bool, error)
	Desc string
}

// Allow implements Requirement.
func (r RequirementFunc) Allow(ctx context.Context, state authstate.State) (bool, error) {
	return r.Fn(ctx, state)
}

// String implements Requirement.
func (r RequirementFunc) String() string {
	if r.Desc == "" {
		return "custom requirement"
	}
	return r.Desc
}

// Authenticated returns a requirement satisfied by any authenticated
// state.
func Authenticated() Requirement {
	return authenticatedReq{}
}

type authenticatedReq struct{}

func (authenticatedReq) Allow(ctx context.Context, state authstate.State) (bool, error) {
	return state.Authenticated(), nil
}

func (authenticatedReq) String() string {
	return "authenticated"
}

// Role returns a requirement satisfied when the principal holds the
// named role.
func Role(name string) Requirement {
	return roleReq{name: name}
}

type roleReq struct {
	name string
}

func (r roleReq) Allow(ctx context.Context, state authstate.State) (bool, error) {
	return state.Principal.HasRole(r.name), nil
}

func (r roleReq) String() string {
	return fmt.Sprintf("role %q", r.name)
}

// AnyRole returns a requirement satisfied when the principal holds at
// least one of the named roles.
func AnyRole(names ...string) Requirement {
	return anyRoleReq{names: names}
}

type anyRoleReq struct {
	names []string
}

func (r anyRoleReq) Allow(ctx context.Context, state authstate.State) (bool, error) {
	for _, name := range r.names {
		if state.Principal.HasRole(name) {
			return true, nil
		}
	}
	return false, nil
}

func (r anyRoleReq) String() string {
	return fmt.Sprintf("any role of [%s]", strings.Join(r.names, " "))
}

// Permission returns a requirement satisfied when one of the
// principal's permission patterns matches the required permission.
func Permission(required string) Requirement {
	return permissionReq{required: required}
}

type permissionReq struct {
	required string
}

func (r permissionReq) Allow(ctx context.Context, state authstate.State) (bool, error) {
	if state.Principal == nil {
		return false, nil
	}
	return MatchAny(state.Principal.Permissions, r.required), nil
}

func (r permissionReq) String() string {
	return fmt.Sprintf("permission %q", r.required)
}

// Policy returns a requirement evaluated by a named policy function.
func Policy(name string, fn PolicyFunc) Requirement {
	return policyReq{name: name, fn: fn}
}

type policyReq struct {
	name string
	fn   PolicyFunc
}

func (r policyReq) Allow(ctx context.Context, state authstate.State) (bool, error) {
	return r.fn(ctx, state)
}

func (r policyReq) String() string {
	return fmt.Sprintf("policy %q", r.name)
}

// Decision is the outcome of evaluating requirements against a state.
type Decision struct {
	// Allowed reports whether every requirement passed.
	Allowed bool

	// Reason describes the first requirement that denied, when not
	// allowed.
	Reason string
}

// Allow is the decision for a state that satisfied every requirement.
var Allow = Decision{Allowed: true}

// Deny builds a denial decision for a requirement.
func Deny(req Requirement) Decision {
	return Decision{Reason: req.String()}
}

// Evaluate checks the state against every requirement. All must pass;
// the first denial decides. An evaluation error aborts and is returned
// as is, leaving the decision to the caller (fail closed).
func Evaluate(ctx context.Context, state authstate.State, reqs []Requirement) (Decision, error) {
	for _, req := range reqs {
		ok, err := req.Allow(ctx, state)
		if err != nil {
			return Decision{}, fmt.Errorf("evaluating %s: %w", req, err)
		}
		if !ok {
			return Deny(req), nil
		}
	}
	return Allow, nil
}

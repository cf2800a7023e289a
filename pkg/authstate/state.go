package authstate

import "errors"

// ErrPending is returned when an authentication state is requested
// before its future has settled.
var ErrPending = errors.New("authstate: state pending")

// Principal is an authenticated identity.
type Principal struct {
	// Subject is the stable identifier of the identity (e.g. the JWT
	// "sub" claim).
	Subject string

	// Name is a display name, if known.
	Name string

	// Roles are the role names granted to the identity.
	Roles []string

	// Permissions are the permission strings granted to the identity,
	// in "resource:action" form.
	Permissions []string

	// Claims carries any additional claims from the credential.
	Claims map[string]any
}

// HasRole reports whether the principal holds the named role.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// State is a resolved authentication state. A zero State is anonymous.
type State struct {
	// Principal is the authenticated identity, or nil when anonymous.
	Principal *Principal
}

// Anonymous returns the unauthenticated state.
func Anonymous() State {
	return State{}
}

// Authenticated reports whether the state carries an identity.
func (s State) Authenticated() bool {
	return s.Principal != nil
}

// Subject returns the principal's subject, or "" when anonymous.
func (s State) Subject() string {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.Subject
}

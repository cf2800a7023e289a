package authstate

import "github.com/gateview-dev/gateview/pkg/vdom"

// futureKey is the scope key under which the authentication future is
// provided to descendants.
type futureKey struct{}

// Provide wraps children in a scope node carrying the authentication
// future, making it visible to every descendant component.
// Panics if future is nil.
func Provide(future *Future, children ...any) *vdom.Node {
	if future == nil {
		panic("authstate: Provide called with nil Future")
	}
	return vdom.Provide(futureKey{}, future, children...)
}

// FromScope returns the authentication future provided by an ancestor.
func FromScope(sc *vdom.Scope) (*Future, bool) {
	f, ok := sc.Value(futureKey{}).(*Future)
	return f, ok
}

// StateFromScope returns the resolved state from an ancestor-provided
// future. Returns the anonymous state and false when no future is in
// scope, when it is still pending, or when it failed.
func StateFromScope(sc *vdom.Scope) (State, bool) {
	f, ok := FromScope(sc)
	if !ok {
		return Anonymous(), false
	}
	state, err := f.Peek()
	if err != nil {
		return Anonymous(), false
	}
	return state, true
}

package vdom

// Scope carries values down the render tree without threading them through
// every component's parameters. It is the explicit equivalent of cascading
// context: each Scope node the renderer descends through forks the current
// scope, so a provided value is visible to descendants only, never to
// siblings or ancestors.
//
// Scopes form a chain. Lookup walks toward the root and returns the nearest
// provided value.
type Scope struct {
	parent *Scope
	key    any
	value  any
}

// NewScope creates an empty root scope.
func NewScope() *Scope {
	return &Scope{}
}

// With returns a child scope that resolves key to value and defers every
// other lookup to the receiver. The receiver is not modified.
func (s *Scope) With(key, value any) *Scope {
	return &Scope{parent: s, key: key, value: value}
}

// Value returns the nearest value provided for key, or nil if no ancestor
// provides one. Safe to call on a nil scope.
func (s *Scope) Value(key any) any {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.key != nil && cur.key == key {
			return cur.value
		}
	}
	return nil
}

// Provide wraps children in a Scope node carrying key→value. The renderer
// forks the active scope at this node, making the value visible to the
// wrapped subtree.
func Provide(key, value any, children ...any) *Node {
	n := Fragment(children...)
	n.Kind = KindScope
	n.ScopeKey = key
	n.ScopeVal = value
	return n
}

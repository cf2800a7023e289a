package authstate

import "net/http"

// Source produces the authentication state for a request. Sources that
// can decide synchronously return an already-settled Future; sources
// that consult a remote system return an unsettled one and resolve it
// when the answer arrives.
type Source interface {
	AuthState(r *http.Request) *Future
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(r *http.Request) *Future

// AuthState implements Source.
func (f SourceFunc) AuthState(r *http.Request) *Future {
	return f(r)
}

// StaticSource returns a source that yields the same resolved state for
// every request. Useful for tests and for wiring a host that performs
// authentication elsewhere.
func StaticSource(state State) Source {
	return SourceFunc(func(r *http.Request) *Future {
		return ResolvedFuture(state)
	})
}

// AnonymousSource returns a source that treats every request as
// unauthenticated.
func AnonymousSource() Source {
	return StaticSource(Anonymous())
}

package authstate

import (
	"context"
	"sync"
)

// Future is a single-assignment container for an authentication state
// that may not have been determined yet. A Future settles exactly once,
// either with a state via Resolve or with an error via Fail, and every
// waiter observes the same result.
type Future struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	state   State
	err     error
}

// NewFuture creates an unsettled Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// ResolvedFuture returns a Future already settled with the given state.
func ResolvedFuture(state State) *Future {
	f := NewFuture()
	f.Resolve(state)
	return f
}

// FailedFuture returns a Future already settled with the given error.
func FailedFuture(err error) *Future {
	f := NewFuture()
	f.Fail(err)
	return f
}

// Resolve settles the future with a state.
// Panics if the future has already settled.
func (f *Future) Resolve(state State) {
	f.settle(state, nil)
}

// Fail settles the future with an error.
// Panics if the future has already settled.
func (f *Future) Fail(err error) {
	f.settle(State{}, err)
}

func (f *Future) settle(state State, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settled {
		panic("authstate: Future settled twice")
	}
	f.state = state
	f.err = err
	f.settled = true
	close(f.done)
}

// Done returns a channel that is closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the future has settled.
func (f *Future) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Peek returns the settled result without blocking. Returns ErrPending
// if the future has not settled yet.
func (f *Future) Peek() (State, error) {
	select {
	case <-f.done:
		return f.state, f.err
	default:
		return State{}, ErrPending
	}
}

// Wait blocks until the future settles or the context is done. Returns
// the context error if it fires first.
func (f *Future) Wait(ctx context.Context) (State, error) {
	select {
	case <-f.done:
		return f.state, f.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

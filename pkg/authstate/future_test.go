package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFutureStartsPending(t *testing.T) {
	f := NewFuture()

	if f.Resolved() {
		t.Error("new future should not be resolved")
	}
	_, err := f.Peek()
	if !errors.Is(err, ErrPending) {
		t.Errorf("Peek on pending future: got %v, want ErrPending", err)
	}
}

func TestFutureResolve(t *testing.T) {
	f := NewFuture()
	f.Resolve(State{Principal: &Principal{Subject: "u1"}})

	if !f.Resolved() {
		t.Error("future should be resolved")
	}

	state, err := f.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject() != "u1" {
		t.Errorf("got subject %q, want %q", state.Subject(), "u1")
	}
}

func TestFutureFail(t *testing.T) {
	wantErr := errors.New("identity provider down")
	f := NewFuture()
	f.Fail(wantErr)

	if !f.Resolved() {
		t.Error("failed future should count as settled")
	}

	_, err := f.Peek()
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

func TestFutureSettleTwicePanics(t *testing.T) {
	f := NewFuture()
	f.Resolve(Anonymous())

	defer func() {
		if recover() == nil {
			t.Error("second Resolve should panic")
		}
	}()
	f.Resolve(Anonymous())
}

func TestFutureResolveAfterFailPanics(t *testing.T) {
	f := NewFuture()
	f.Fail(errors.New("boom"))

	defer func() {
		if recover() == nil {
			t.Error("Resolve after Fail should panic")
		}
	}()
	f.Resolve(Anonymous())
}

func TestFutureWait(t *testing.T) {
	f := NewFuture()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve(State{Principal: &Principal{Subject: "late"}})
	}()

	state, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject() != "late" {
		t.Errorf("got subject %q, want %q", state.Subject(), "late")
	}
}

func TestFutureWaitContextCancel(t *testing.T) {
	f := NewFuture()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestFutureDoneChannel(t *testing.T) {
	f := NewFuture()

	select {
	case <-f.Done():
		t.Fatal("done channel should not be closed before settle")
	default:
	}

	f.Resolve(Anonymous())

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel should be closed after settle")
	}
}

func TestFutureConcurrentWaiters(t *testing.T) {
	f := NewFuture()

	const waiters = 32
	results := make([]string, waiters)
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func(i int) {
			defer wg.Done()
			state, err := f.Wait(context.Background())
			if err != nil {
				t.Errorf("waiter %d: unexpected error: %v", i, err)
				return
			}
			results[i] = state.Subject()
		}(i)
	}

	f.Resolve(State{Principal: &Principal{Subject: "shared"}})
	wg.Wait()

	for i, got := range results {
		if got != "shared" {
			t.Errorf("waiter %d: got %q, want %q", i, got, "shared")
		}
	}
}

func TestResolvedFuture(t *testing.T) {
	f := ResolvedFuture(State{Principal: &Principal{Subject: "pre"}})

	state, err := f.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject() != "pre" {
		t.Errorf("got subject %q, want %q", state.Subject(), "pre")
	}
}

func TestFailedFuture(t *testing.T) {
	wantErr := errors.New("nope")
	f := FailedFuture(wantErr)

	_, err := f.Peek()
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

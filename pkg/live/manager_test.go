package live

import (
	"testing"
	"time"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/gate"
)

func noopRender() (gate.Outcome, string, error) {
	return gate.OutcomeAuthorized, "", nil
}

func TestManagerRegisterAndClaim(t *testing.T) {
	m := NewManager(ManagerConfig{})
	defer m.Close()

	future := authstate.NewFuture()
	id := m.Register(future, noopRender)
	if id == "" {
		t.Fatal("Register returned an empty id")
	}
	if got := m.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}

	view, ok := m.claim(id)
	if !ok {
		t.Fatal("claim found nothing")
	}
	if view.future != future {
		t.Error("claimed view does not carry the registered future")
	}

	if _, ok := m.claim(id); ok {
		t.Error("second claim succeeded, want the registration consumed")
	}
}

func TestManagerClaimUnknown(t *testing.T) {
	m := NewManager(ManagerConfig{})
	defer m.Close()

	if _, ok := m.claim("no-such-view"); ok {
		t.Error("claim of unknown id succeeded")
	}
}

func TestManagerSweepExpires(t *testing.T) {
	m := NewManager(ManagerConfig{
		TTL:           10 * time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
	})
	defer m.Close()

	m.Register(authstate.NewFuture(), noopRender)

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("registration never expired")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestManagerClose(t *testing.T) {
	m := NewManager(ManagerConfig{})
	m.Register(authstate.NewFuture(), noopRender)

	m.Close()
	m.Close()

	if got := m.Len(); got != 0 {
		t.Errorf("Len after Close = %d, want 0", got)
	}

	id := m.Register(authstate.NewFuture(), noopRender)
	if _, ok := m.claim(id); ok {
		t.Error("registration after Close was stored")
	}
}

package authz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gateview-dev/gateview/pkg/authstate"
)

func userState(roles, permissions []string) authstate.State {
	return authstate.State{Principal: &authstate.Principal{
		Subject:     "u1",
		Roles:       roles,
		Permissions: permissions,
	}}
}

func TestAuthenticatedRequirement(t *testing.T) {
	req := Authenticated()

	ok, err := req.Allow(context.Background(), userState(nil, nil))
	if err != nil || !ok {
		t.Errorf("authenticated state: got (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = req.Allow(context.Background(), authstate.Anonymous())
	if err != nil || ok {
		t.Errorf("anonymous state: got (%v, %v), want (false, nil)", ok, err)
	}

	if req.String() != "authenticated" {
		t.Errorf("String: got %q", req.String())
	}
}

func TestRoleRequirement(t *testing.T) {
	req := Role("admin")

	tests := []struct {
		name  string
		state authstate.State
		want  bool
	}{
		{"has role", userState([]string{"admin"}, nil), true},
		{"other role", userState([]string{"viewer"}, nil), false},
		{"no roles", userState(nil, nil), false},
		{"anonymous", authstate.Anonymous(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := req.Allow(context.Background(), tt.state)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("got %v, want %v", ok, tt.want)
			}
		})
	}

	if req.String() != `role "admin"` {
		t.Errorf("String: got %q", req.String())
	}
}

func TestAnyRoleRequirement(t *testing.T) {
	req := AnyRole("admin", "ops")

	tests := []struct {
		name  string
		state authstate.State
		want  bool
	}{
		{"first role", userState([]string{"admin"}, nil), true},
		{"second role", userState([]string{"ops"}, nil), true},
		{"both roles", userState([]string{"admin", "ops"}, nil), true},
		{"neither", userState([]string{"viewer"}, nil), false},
		{"anonymous", authstate.Anonymous(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := req.Allow(context.Background(), tt.state)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("got %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestPermissionRequirement(t *testing.T) {
	req := Permission("reports:read")

	tests := []struct {
		name  string
		state authstate.State
		want  bool
	}{
		{"exact permission", userState(nil, []string{"reports:read"}), true},
		{"wildcard permission", userState(nil, []string{"reports:*"}), true},
		{"universal permission", userState(nil, []string{"*:*"}), true},
		{"other permission", userState(nil, []string{"users:read"}), false},
		{"no permissions", userState(nil, nil), false},
		{"anonymous", authstate.Anonymous(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := req.Allow(context.Background(), tt.state)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("got %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestPolicyRequirement(t *testing.T) {
	req := Policy("owns-report", func(ctx context.Context, state authstate.State) (bool, error) {
		return state.Subject() == "owner", nil
	})

	ok, err := req.Allow(context.Background(), authstate.State{
		Principal: &authstate.Principal{Subject: "owner"},
	})
	if err != nil || !ok {
		t.Errorf("owner: got (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = req.Allow(context.Background(), userState(nil, nil))
	if err != nil || ok {
		t.Errorf("non-owner: got (%v, %v), want (false, nil)", ok, err)
	}

	if req.String() != `policy "owns-report"` {
		t.Errorf("String: got %q", req.String())
	}
}

func TestRequirementFunc(t *testing.T) {
	req := RequirementFunc{
		Fn: func(ctx context.Context, state authstate.State) (bool, error) {
			return true, nil
		},
		Desc: "always",
	}

	ok, err := req.Allow(context.Background(), authstate.Anonymous())
	if err != nil || !ok {
		t.Errorf("got (%v, %v), want (true, nil)", ok, err)
	}
	if req.String() != "always" {
		t.Errorf("String: got %q", req.String())
	}

	unnamed := RequirementFunc{Fn: req.Fn}
	if unnamed.String() != "custom requirement" {
		t.Errorf("String: got %q", unnamed.String())
	}
}

func TestEvaluateAllPass(t *testing.T) {
	reqs := []Requirement{Authenticated(), Role("admin")}
	state := userState([]string{"admin"}, nil)

	decision, err := Evaluate(context.Background(), state, reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("got denied (%s), want allowed", decision.Reason)
	}
}

func TestEvaluateFirstDenialWins(t *testing.T) {
	reqs := []Requirement{
		Authenticated(),
		Role("admin"),
		Permission("reports:read"),
	}
	state := userState([]string{"viewer"}, []string{"reports:read"})

	decision, err := Evaluate(context.Background(), state, reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Fatal("got allowed, want denied")
	}
	if decision.Reason != `role "admin"` {
		t.Errorf("reason: got %q, want %q", decision.Reason, `role "admin"`)
	}
}

func TestEvaluateEmptyRequirements(t *testing.T) {
	decision, err := Evaluate(context.Background(), authstate.Anonymous(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Error("empty requirements should allow")
	}
}

func TestEvaluateErrorAborts(t *testing.T) {
	boom := errors.New("policy backend down")
	reqs := []Requirement{
		Policy("flaky", func(ctx context.Context, state authstate.State) (bool, error) {
			return false, boom
		}),
		Role("never-reached"),
	}

	_, err := Evaluate(context.Background(), userState(nil, nil), reqs)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped %v", err, boom)
	}
	if !strings.Contains(err.Error(), `policy "flaky"`) {
		t.Errorf("error should name the requirement: %v", err)
	}
}

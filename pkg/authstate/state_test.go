package authstate

import "testing"

func TestAnonymousState(t *testing.T) {
	s := Anonymous()

	if s.Authenticated() {
		t.Error("anonymous state should not be authenticated")
	}
	if s.Subject() != "" {
		t.Errorf("anonymous subject: got %q, want empty", s.Subject())
	}
}

func TestAuthenticatedState(t *testing.T) {
	s := State{Principal: &Principal{Subject: "u1", Name: "Ada"}}

	if !s.Authenticated() {
		t.Error("state with principal should be authenticated")
	}
	if s.Subject() != "u1" {
		t.Errorf("got subject %q, want %q", s.Subject(), "u1")
	}
}

func TestPrincipalHasRole(t *testing.T) {
	p := &Principal{Roles: []string{"viewer", "admin"}}

	tests := []struct {
		name string
		p    *Principal
		role string
		want bool
	}{
		{"held role", p, "admin", true},
		{"other held role", p, "viewer", true},
		{"missing role", p, "owner", false},
		{"nil principal", nil, "admin", false},
		{"no roles", &Principal{}, "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.HasRole(tt.role); got != tt.want {
				t.Errorf("HasRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

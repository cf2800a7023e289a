package authstate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-key")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func mustJWTSource(t *testing.T, cfg JWTConfig) *JWTSource {
	t.Helper()
	src, err := NewJWTSource(cfg)
	if err != nil {
		t.Fatalf("NewJWTSource: %v", err)
	}
	return src
}

func TestNewJWTSourceRequiresSecret(t *testing.T) {
	_, err := NewJWTSource(JWTConfig{})
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
	if !strings.Contains(err.Error(), "secret") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestJWTSourceValidToken(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":         "user-42",
		"name":        "Ada Lovelace",
		"roles":       []string{"admin", "viewer"},
		"permissions": []string{"reports:read"},
	})

	f := src.AuthState(bearerRequest(token))
	if !f.Resolved() {
		t.Fatal("JWT source should return a settled future")
	}

	state, err := f.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.Authenticated() {
		t.Fatal("valid token should authenticate")
	}

	p := state.Principal
	if p.Subject != "user-42" {
		t.Errorf("subject: got %q, want %q", p.Subject, "user-42")
	}
	if p.Name != "Ada Lovelace" {
		t.Errorf("name: got %q, want %q", p.Name, "Ada Lovelace")
	}
	if !p.HasRole("admin") || !p.HasRole("viewer") {
		t.Errorf("roles not extracted: %v", p.Roles)
	}
	if len(p.Permissions) != 1 || p.Permissions[0] != "reports:read" {
		t.Errorf("permissions not extracted: %v", p.Permissions)
	}
}

func TestJWTSourceRejectionsResolveAnonymous(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret, Issuer: "gateview"})

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "no token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not.a.jwt",
		},
		{
			name: "wrong secret",
			token: signToken(t, []byte("other-secret"), jwt.MapClaims{
				"sub": "u1", "iss": "gateview",
			}),
		},
		{
			name: "expired",
			token: signToken(t, testSecret, jwt.MapClaims{
				"sub": "u1", "iss": "gateview",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "wrong issuer",
			token: signToken(t, testSecret, jwt.MapClaims{
				"sub": "u1", "iss": "someone-else",
			}),
		},
		{
			name: "missing subject",
			token: signToken(t, testSecret, jwt.MapClaims{
				"iss": "gateview",
			}),
		},
		{
			name: "missing expiry",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"sub": "u1", "iss": "gateview",
				})
				s, err := tok.SignedString(testSecret)
				if err != nil {
					t.Fatalf("signing token: %v", err)
				}
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := src.AuthState(bearerRequest(tt.token))
			if !f.Resolved() {
				t.Fatal("future should be settled")
			}
			state, err := f.Peek()
			if err != nil {
				t.Fatalf("rejection should not fail the future, got %v", err)
			}
			if state.Authenticated() {
				t.Error("rejected token should yield anonymous state")
			}
		})
	}
}

func TestJWTSourceAudience(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret, Audience: "web"})

	good := signToken(t, testSecret, jwt.MapClaims{"sub": "u1", "aud": "web"})
	state, err := src.AuthState(bearerRequest(good)).Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.Authenticated() {
		t.Error("matching audience should authenticate")
	}

	bad := signToken(t, testSecret, jwt.MapClaims{"sub": "u1", "aud": "mobile"})
	state, err = src.AuthState(bearerRequest(bad)).Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Authenticated() {
		t.Error("wrong audience should yield anonymous state")
	}
}

func TestJWTSourceCookieFallback(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret, CookieName: "session"})

	token := signToken(t, testSecret, jwt.MapClaims{"sub": "cookie-user"})
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	state, err := src.AuthState(req).Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject() != "cookie-user" {
		t.Errorf("got subject %q, want %q", state.Subject(), "cookie-user")
	}
}

func TestJWTSourceHeaderWinsOverCookie(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret, CookieName: "session"})

	headerToken := signToken(t, testSecret, jwt.MapClaims{"sub": "from-header"})
	cookieToken := signToken(t, testSecret, jwt.MapClaims{"sub": "from-cookie"})

	req := bearerRequest(headerToken)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookieToken})

	state, err := src.AuthState(req).Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject() != "from-header" {
		t.Errorf("got subject %q, want %q", state.Subject(), "from-header")
	}
}

func TestJWTSourceCustomRoleClaim(t *testing.T) {
	src := mustJWTSource(t, JWTConfig{Secret: testSecret, RoleClaim: "groups"})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":    "u1",
		"groups": []string{"ops"},
		"roles":  []string{"ignored"},
	})

	state, err := src.AuthState(bearerRequest(token)).Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.Principal.HasRole("ops") {
		t.Errorf("custom role claim not read: %v", state.Principal.Roles)
	}
	if state.Principal.HasRole("ignored") {
		t.Error("default role claim should be ignored when overridden")
	}
}

func TestStringsClaim(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   int
	}{
		{"absent", jwt.MapClaims{}, 0},
		{"string slice", jwt.MapClaims{"roles": []string{"a", "b"}}, 2},
		{"any slice", jwt.MapClaims{"roles": []any{"a", "b", "c"}}, 3},
		{"single string", jwt.MapClaims{"roles": "solo"}, 1},
		{"mixed any slice skips non-strings", jwt.MapClaims{"roles": []any{"a", 7}}, 1},
		{"wrong type", jwt.MapClaims{"roles": 42}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringsClaim(tt.claims, "roles")
			if len(got) != tt.want {
				t.Errorf("got %d values (%v), want %d", len(got), got, tt.want)
			}
		})
	}
}

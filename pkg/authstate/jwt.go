package authstate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// Secret is the HMAC verification key. Required.
	Secret []byte

	// Issuer, when set, must match the token's "iss" claim.
	Issuer string

	// Audience, when set, must match one of the token's "aud" values.
	Audience string

	// Leeway is the clock skew tolerance for time-based claims.
	Leeway time.Duration

	// RoleClaim names the claim holding role names (default: "roles").
	RoleClaim string

	// PermissionClaim names the claim holding permission strings
	// (default: "permissions").
	PermissionClaim string

	// NameClaim names the claim holding the display name
	// (default: "name").
	NameClaim string

	// CookieName, when set, is checked for the token if no
	// Authorization header is present.
	CookieName string

	// Logger receives debug logs for rejected tokens. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

func (c *JWTConfig) applyDefaults() {
	if c.RoleClaim == "" {
		c.RoleClaim = "roles"
	}
	if c.PermissionClaim == "" {
		c.PermissionClaim = "permissions"
	}
	if c.NameClaim == "" {
		c.NameClaim = "name"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func (c *JWTConfig) validate() error {
	if len(c.Secret) == 0 {
		return errors.New("jwt: secret is required")
	}
	return nil
}

// JWTSource authenticates requests by a bearer JWT. A request without a
// token, or with a token that fails verification, yields the anonymous
// state; rejection never surfaces as a failed future.
type JWTSource struct {
	cfg JWTConfig
}

// NewJWTSource creates a JWT-backed source.
func NewJWTSource(cfg JWTConfig) (*JWTSource, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &JWTSource{cfg: cfg}, nil
}

// AuthState implements Source. The returned future is always settled.
func (s *JWTSource) AuthState(r *http.Request) *Future {
	token := s.extractToken(r)
	if token == "" {
		return ResolvedFuture(Anonymous())
	}

	state, err := s.parse(token)
	if err != nil {
		s.cfg.Logger.Debug("rejected bearer token", "err", err)
		return ResolvedFuture(Anonymous())
	}
	return ResolvedFuture(state)
}

// extractToken pulls the token from the Authorization header or the
// configured cookie.
func (s *JWTSource) extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if s.cfg.CookieName != "" {
		if cookie, err := r.Cookie(s.cfg.CookieName); err == nil {
			return cookie.Value
		}
	}
	return ""
}

// parse verifies the token and builds a State from its claims.
func (s *JWTSource) parse(tokenString string) (State, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return State{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return State{}, errors.New("invalid token")
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return State{}, errors.New("token has no subject")
	}

	p := &Principal{
		Subject:     sub,
		Roles:       stringsClaim(claims, s.cfg.RoleClaim),
		Permissions: stringsClaim(claims, s.cfg.PermissionClaim),
		Claims:      map[string]any(claims),
	}
	if name, ok := claims[s.cfg.NameClaim].(string); ok {
		p.Name = name
	}
	return State{Principal: p}, nil
}

// keyFunc verifies the signing method before handing out the key.
func (s *JWTSource) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.Secret, nil
}

func (s *JWTSource) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(s.cfg.Leeway))
	}
	return opts
}

// stringsClaim reads a claim that holds a list of strings. JSON numbers
// and other non-string members are skipped.
func stringsClaim(claims jwt.MapClaims, name string) []string {
	raw, ok := claims[name]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}

package gateview

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/gate"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the main application configuration.
// This is the user-friendly entry point for configuring a gateview app.
type Config struct {
	// Source produces the authentication state for each request.
	// If nil, every request is treated as anonymous.
	Source authstate.Source

	// Policies is the registry that named policy requirements resolve
	// against. Only needed when pages declare policy specs.
	Policies *authz.PolicyRegistry

	// Resolver builds and memoizes page requirements. If nil, a fresh
	// resolver over Policies is used. Supply a policysrc.Overlay here to
	// merge externally managed requirement manifests in.
	Resolver gate.RequirementSource

	// Authorizing overrides the content shown while authentication is
	// pending. Defaults to the gate's built-in fragment.
	Authorizing func() *vdom.Node

	// NotAuthorized overrides the content shown when a requirement
	// denies. Defaults to the gate's built-in fragment.
	NotAuthorized func(state authstate.State) *vdom.Node

	// Layout wraps gate output for pages that do not declare a layout of
	// their own. Also applied to authorizing and denial content.
	Layout func(m route.Match, content *vdom.Node) *vdom.Node

	// ErrorPage renders the response body when building a route view
	// fails. If nil, a plain-text 500 is written.
	ErrorPage func(err error) *vdom.Node

	// NotFound renders the response body for unmatched paths. If nil,
	// the router's default 404 is used.
	NotFound func() *vdom.Node

	// Observer sees every gate outcome, in addition to the observers the
	// app wires itself (slog always, Prometheus unless metrics are
	// disabled).
	Observer gate.Observer

	// Live configures the resolution push channel.
	Live LiveConfig

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig

	// DevMode enables development conveniences: pretty-printed HTML and
	// a live endpoint that accepts any Origin.
	// SECURITY: never use in production.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// LiveConfig configures the websocket channel that pushes the settled
// outcome to pages that rendered in the authorizing state.
type LiveConfig struct {
	// Disabled turns the live channel off. Pages still render; viewers
	// just have to refresh to see the settled outcome.
	Disabled bool

	// Path is where the websocket handler is mounted.
	// Default: "/gateview/ws".
	Path string

	// ScriptPath is where the client script is served.
	// Default: "/gateview/live.js".
	ScriptPath string

	// PendingTTL is how long an unclaimed pending view is kept.
	// Default: 2 minutes.
	PendingTTL time.Duration

	// CheckOrigin validates the Origin header during the upgrade.
	// Default: same-origin. DevMode overrides this to accept any origin.
	CheckOrigin func(r *http.Request) bool
}

// MetricsConfig configures the Prometheus scrape endpoint.
type MetricsConfig struct {
	// Disabled turns the endpoint and the Prometheus observer off.
	Disabled bool

	// Path is where the metrics handler is mounted.
	// Default: "/metrics".
	Path string
}

// =============================================================================
// Default Configurations
// =============================================================================

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Live:    DefaultLiveConfig(),
		Metrics: DefaultMetricsConfig(),
		DevMode: false,
	}
}

// DefaultLiveConfig returns a LiveConfig with sensible defaults.
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		Path:       "/gateview/ws",
		ScriptPath: "/gateview/live.js",
		PendingTTL: 2 * time.Minute,
	}
}

// DefaultMetricsConfig returns a MetricsConfig with sensible defaults.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Path: "/metrics",
	}
}

// applyDefaults fills unset fields in place.
func (c *Config) applyDefaults() {
	if c.Source == nil {
		c.Source = authstate.AnonymousSource()
	}
	if c.Resolver == nil {
		c.Resolver = authz.NewResolver(c.Policies)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Live.Path == "" {
		c.Live.Path = DefaultLiveConfig().Path
	}
	if c.Live.ScriptPath == "" {
		c.Live.ScriptPath = DefaultLiveConfig().ScriptPath
	}
	if c.Live.PendingTTL == 0 {
		c.Live.PendingTTL = DefaultLiveConfig().PendingTTL
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsConfig().Path
	}
	if c.DevMode && c.Live.CheckOrigin == nil {
		c.Live.CheckOrigin = func(r *http.Request) bool { return true }
	}
}

// =============================================================================
// Environment Configuration
// =============================================================================

// EnvConfig is the deployment-facing configuration, bound to GATEVIEW_*
// environment variables. It carries the knobs an operator sets without
// touching code; the in-code Config carries everything else.
type EnvConfig struct {
	// Addr is the listen address.
	Addr string `env:"GATEVIEW_ADDR" envDefault:":8080"`

	// DevMode enables development conveniences. Never in production.
	DevMode bool `env:"GATEVIEW_DEV_MODE"`

	// JWTSecret is the HMAC secret for bearer-token authentication.
	// Empty means requests are treated as anonymous.
	JWTSecret string `env:"GATEVIEW_JWT_SECRET"`

	// JWTIssuer, when set, is required of every token's iss claim.
	JWTIssuer string `env:"GATEVIEW_JWT_ISSUER"`

	// JWTAudience, when set, is required of every token's aud claim.
	JWTAudience string `env:"GATEVIEW_JWT_AUDIENCE"`

	// ManifestPath points at a local requirement manifest file.
	ManifestPath string `env:"GATEVIEW_MANIFEST_PATH"`

	// ManifestS3Bucket and ManifestS3Key point at a manifest object in
	// S3. Ignored when ManifestPath is set.
	ManifestS3Bucket string `env:"GATEVIEW_MANIFEST_S3_BUCKET"`
	ManifestS3Key    string `env:"GATEVIEW_MANIFEST_S3_KEY"`

	// ManifestReload is how often the manifest is re-fetched.
	// Zero disables periodic reloading.
	ManifestReload time.Duration `env:"GATEVIEW_MANIFEST_RELOAD" envDefault:"1m"`

	// MetricsDisabled turns the /metrics endpoint off.
	MetricsDisabled bool `env:"GATEVIEW_METRICS_DISABLED"`
}

// LoadEnvConfig reads EnvConfig from the process environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// HasManifest reports whether any manifest source is configured.
func (c EnvConfig) HasManifest() bool {
	return c.ManifestPath != "" || (c.ManifestS3Bucket != "" && c.ManifestS3Key != "")
}

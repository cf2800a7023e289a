package gateview

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Live.Path != "/gateview/ws" {
		t.Errorf("live path = %q, want /gateview/ws", cfg.Live.Path)
	}
	if cfg.Live.ScriptPath != "/gateview/live.js" {
		t.Errorf("script path = %q, want /gateview/live.js", cfg.Live.ScriptPath)
	}
	if cfg.Live.PendingTTL != 2*time.Minute {
		t.Errorf("pending TTL = %v, want 2m", cfg.Live.PendingTTL)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path = %q, want /metrics", cfg.Metrics.Path)
	}
	if cfg.DevMode {
		t.Error("dev mode should default off")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Source == nil {
		t.Error("expected default source")
	}
	if cfg.Resolver == nil {
		t.Error("expected default resolver")
	}
	if cfg.Logger == nil {
		t.Error("expected default logger")
	}
	if cfg.Live.Path == "" || cfg.Live.ScriptPath == "" {
		t.Error("expected live paths filled")
	}
	if cfg.Live.CheckOrigin != nil {
		t.Error("origin check should stay strict outside dev mode")
	}
}

func TestApplyDefaultsDevMode(t *testing.T) {
	cfg := Config{DevMode: true}
	cfg.applyDefaults()

	if cfg.Live.CheckOrigin == nil {
		t.Fatal("dev mode should relax the origin check")
	}
	if !cfg.Live.CheckOrigin(nil) {
		t.Error("dev mode origin check should accept anything")
	}
}

func TestLoadEnvConfigDefaults(t *testing.T) {
	cfg, err := LoadEnvConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.ManifestReload != time.Minute {
		t.Errorf("manifest reload = %v, want 1m", cfg.ManifestReload)
	}
	if cfg.DevMode {
		t.Error("dev mode should default off")
	}
}

func TestLoadEnvConfigValues(t *testing.T) {
	t.Setenv("GATEVIEW_ADDR", ":9090")
	t.Setenv("GATEVIEW_DEV_MODE", "true")
	t.Setenv("GATEVIEW_JWT_SECRET", "s3cret")
	t.Setenv("GATEVIEW_JWT_ISSUER", "https://issuer.example")
	t.Setenv("GATEVIEW_MANIFEST_PATH", "/etc/gateview/requirements.json")
	t.Setenv("GATEVIEW_MANIFEST_RELOAD", "30s")

	cfg, err := LoadEnvConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if !cfg.DevMode {
		t.Error("dev mode not parsed")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "https://issuer.example" {
		t.Errorf("jwt issuer = %q", cfg.JWTIssuer)
	}
	if cfg.ManifestPath != "/etc/gateview/requirements.json" {
		t.Errorf("manifest path = %q", cfg.ManifestPath)
	}
	if cfg.ManifestReload != 30*time.Second {
		t.Errorf("manifest reload = %v, want 30s", cfg.ManifestReload)
	}
}

func TestLoadEnvConfigBadDuration(t *testing.T) {
	t.Setenv("GATEVIEW_MANIFEST_RELOAD", "often")

	if _, err := LoadEnvConfig(); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestHasManifest(t *testing.T) {
	tests := []struct {
		name string
		cfg  EnvConfig
		want bool
	}{
		{"none", EnvConfig{}, false},
		{"file", EnvConfig{ManifestPath: "reqs.json"}, true},
		{"s3", EnvConfig{ManifestS3Bucket: "b", ManifestS3Key: "k"}, true},
		{"s3 bucket only", EnvConfig{ManifestS3Bucket: "b"}, false},
		{"s3 key only", EnvConfig{ManifestS3Key: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.HasManifest(); got != tt.want {
				t.Errorf("HasManifest() = %v, want %v", got, tt.want)
			}
		})
	}
}

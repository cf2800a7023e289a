package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/gateview-dev/gateview"
	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/policysrc"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		devMode  bool
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application",
		Long: `Run the gateview demo application.

Pages:
  /           public home page
  /dashboard  requires the admin role
  /reports    requires the reports:read permission

Authentication is a bearer JWT verified against GATEVIEW_JWT_SECRET;
without a secret every viewer is anonymous. A requirement manifest
(file or S3) can layer additional requirements onto the pages at
runtime.

Flags override the corresponding GATEVIEW_* environment variables.

Examples:
  gateview serve
  gateview serve --addr=:9090 --dev
  gateview serve --manifest=requirements.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, devMode, manifest)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from GATEVIEW_ADDR)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Requirement manifest file")

	return cmd
}

func runServe(addr string, devMode bool, manifest string) error {
	envCfg, err := gateview.LoadEnvConfig()
	if err != nil {
		return err
	}

	// Command-line overrides
	if addr != "" {
		envCfg.Addr = addr
	}
	if devMode {
		envCfg.DevMode = true
	}
	if manifest != "" {
		envCfg.ManifestPath = manifest
	}

	level := slog.LevelInfo
	if envCfg.DevMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	source, err := buildSource(envCfg, logger)
	if err != nil {
		return err
	}

	appCfg := gateview.Config{
		Source:        source,
		Layout:        demoLayout,
		NotAuthorized: demoDenied,
		Metrics:       gateview.MetricsConfig{Disabled: envCfg.MetricsDisabled},
		DevMode:       envCfg.DevMode,
		Logger:        logger,
	}

	resolver := authz.NewResolver(nil)
	if envCfg.HasManifest() {
		src, err := manifestSource(envCfg)
		if err != nil {
			return err
		}
		overlay := policysrc.NewOverlay(policysrc.NewManifest(), resolver)
		if err := overlay.Reload(context.Background(), src); err != nil {
			return fmt.Errorf("initial manifest load: %w", err)
		}
		success("requirement manifest loaded from %s", src)

		if envCfg.ManifestReload > 0 {
			reloader := policysrc.NewReloader(overlay, src, envCfg.ManifestReload, logger)
			defer reloader.Stop()
		}
		appCfg.Resolver = overlay
	} else {
		appCfg.Resolver = resolver
	}

	app := gateview.New(appCfg)
	defer app.Close()

	registerDemoPages(app)

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	info("listening on %s", envCfg.Addr)
	if !envCfg.MetricsDisabled {
		info("metrics on %s", gateview.DefaultMetricsConfig().Path)
	}
	if envCfg.DevMode {
		warn("development mode is on, do not use in production")
	}

	srv := &http.Server{
		Addr:    envCfg.Addr,
		Handler: app,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\n  Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// buildSource picks the authentication source for the demo: JWT when a
// secret is configured, anonymous otherwise.
func buildSource(cfg gateview.EnvConfig, logger *slog.Logger) (authstate.Source, error) {
	if cfg.JWTSecret == "" {
		warn("GATEVIEW_JWT_SECRET not set, all viewers are anonymous")
		return authstate.AnonymousSource(), nil
	}

	src, err := authstate.NewJWTSource(authstate.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt source: %w", err)
	}
	return src, nil
}

// manifestSource builds the requirement manifest source from the
// environment: a local file when GATEVIEW_MANIFEST_PATH is set,
// otherwise an S3 object.
func manifestSource(cfg gateview.EnvConfig) (policysrc.Source, error) {
	if cfg.ManifestPath != "" {
		return policysrc.FileSource{Path: cfg.ManifestPath}, nil
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION is required for an S3 manifest")
	}
	client := s3.New(s3.Options{
		Region:      region,
		Credentials: envCredentials(),
	})
	return policysrc.NewS3Source(client, cfg.ManifestS3Bucket, cfg.ManifestS3Key), nil
}

// envCredentials reads static credentials from the conventional AWS
// environment variables. Hosts with richer credential needs should
// embed gateview as a library and inject their own client.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required for an S3 manifest")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		}, nil
	})
}

package gateview

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/gate"
	"github.com/gateview-dev/gateview/pkg/live"
	"github.com/gateview-dev/gateview/pkg/obs"
	"github.com/gateview-dev/gateview/pkg/render"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// =============================================================================
// App Type
// =============================================================================

// App ties the pieces together into a single http.Handler: registered
// pages are served through the authorization gate, the live channel
// pushes settled outcomes to pages that rendered while authentication
// was pending, and metrics are exposed for scraping.
//
// Create an App with gateview.New():
//
//	app := gateview.New(gateview.Config{
//	    Source: jwtSource,
//	    Logger: slog.Default(),
//	})
//	app.MustRegister(&route.Page{Path: "/", Body: homeBody})
//	http.ListenAndServe(":8080", app)
type App struct {
	router   *chi.Mux
	registry *route.Registry
	renderer *render.Renderer
	live     *live.Manager

	gateCfg gate.Config
	config  Config
	logger  *slog.Logger

	mountOnce sync.Once
}

// New creates a gateview application with the given configuration.
func New(cfg Config) *App {
	cfg.applyDefaults()

	a := &App{
		registry: route.NewRegistry(),
		renderer: render.NewRenderer(render.Config{Pretty: cfg.DevMode}),
		config:   cfg,
		logger:   cfg.Logger,
		gateCfg: gate.Config{
			Resolver:      cfg.Resolver,
			Authorizing:   cfg.Authorizing,
			NotAuthorized: cfg.NotAuthorized,
			Layout:        cfg.Layout,
			Observer: gate.Observers(
				gate.SlogObserver(cfg.Logger),
				metricsObserver(cfg.Metrics),
				cfg.Observer,
			),
		},
	}

	r := chi.NewRouter()
	if !cfg.Live.Disabled {
		a.live = live.NewManager(live.ManagerConfig{
			TTL:    cfg.Live.PendingTTL,
			Logger: cfg.Logger,
		})
		r.Handle(cfg.Live.Path, live.Handler(a.live, live.HandlerConfig{
			CheckOrigin: cfg.Live.CheckOrigin,
			Logger:      cfg.Logger,
		}))
		r.Handle(cfg.Live.ScriptPath, live.ScriptHandler())
	}
	if !cfg.Metrics.Disabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	if cfg.NotFound != nil {
		r.NotFound(a.renderNotFound)
	}
	a.router = r

	return a
}

// metricsObserver returns the Prometheus observer, or nil when metrics
// are disabled.
func metricsObserver(cfg MetricsConfig) gate.Observer {
	if cfg.Disabled {
		return nil
	}
	return obs.Prometheus()
}

// =============================================================================
// Route Registration
// =============================================================================

// Register adds a page. Register all pages before the first request is
// served; pages added later are not mounted.
func (a *App) Register(p *route.Page) error {
	return a.registry.Register(p)
}

// MustRegister adds a page and panics on error. Intended for static
// route tables built at startup.
func (a *App) MustRegister(p *route.Page) {
	a.registry.MustRegister(p)
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler. Page routes are mounted on first
// use, so registration order does not matter.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mountOnce.Do(a.mountPages)
	a.router.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
// This is useful for explicit type conversion or middleware wrapping.
func (a *App) Handler() http.Handler {
	return a
}

func (a *App) mountPages() {
	route.MountPages(a.router, a.registry, a.pageHandler)
}

// pageHandler serves one page through the gate. When the request's
// authentication future has not settled by render time and the live
// channel is enabled, the authorizing markup is wrapped in a swap
// region and the view is registered for a push once the future settles.
func (a *App) pageHandler(m route.Match) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		future := a.config.Source.AuthState(r)

		var seen gate.Observation
		view, err := gate.New(r.Context(), m, future, a.captureConfig(&seen))
		if err != nil {
			a.renderError(w, m, err)
			return
		}

		node := vdom.Comp(view)
		if a.live != nil && !future.Resolved() {
			id := a.live.Register(future, a.settledRender(m, future))
			node = vdom.Fragment(
				live.Placeholder(id, node),
				live.ScriptTag(a.config.Live.ScriptPath, a.config.Live.Path),
			)
		}

		html, err := a.renderer.RenderToString(node)
		if err != nil {
			a.logger.Error("render failed", "page", m.Page.Path, "error", err)
			http.Error(w, "Render error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusFor(seen.Outcome))
		w.Write([]byte("<!DOCTYPE html>\n"))
		w.Write([]byte(html))
	})
}

// captureConfig returns the gate configuration with an extra observer
// that records the outcome of the render pass into seen.
func (a *App) captureConfig(seen *gate.Observation) gate.Config {
	cfg := a.gateCfg
	cfg.Observer = gate.Observers(a.gateCfg.Observer, gate.ObserverFunc(func(_ context.Context, o gate.Observation) {
		*seen = o
	}))
	return cfg
}

// statusFor maps a gate outcome to the HTTP status of the initial
// response. Denials are forbidden; pending renders are 200 because the
// page itself rendered fine.
func statusFor(outcome gate.Outcome) int {
	if outcome == gate.OutcomeNotAuthorized {
		return http.StatusForbidden
	}
	return http.StatusOK
}

// settledRender returns the render pass the live channel runs once the
// future settles, producing the swap payload.
func (a *App) settledRender(m route.Match, future *authstate.Future) live.RenderFunc {
	return func() (gate.Outcome, string, error) {
		var seen gate.Observation
		view, err := gate.New(context.Background(), m, future, a.captureConfig(&seen))
		if err != nil {
			return gate.OutcomeNotAuthorized, "", err
		}
		html, err := a.renderer.RenderToString(vdom.Comp(view))
		if err != nil {
			return gate.OutcomeNotAuthorized, "", err
		}
		return seen.Outcome, html, nil
	}
}

func (a *App) renderError(w http.ResponseWriter, m route.Match, err error) {
	a.logger.Error("building route view failed", "page", m.Page.Path, "error", err)

	if a.config.ErrorPage != nil {
		html, rerr := a.renderer.RenderToString(a.config.ErrorPage(err))
		if rerr == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("<!DOCTYPE html>\n"))
			w.Write([]byte(html))
			return
		}
		a.logger.Error("error page render failed", "error", rerr)
	}

	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (a *App) renderNotFound(w http.ResponseWriter, r *http.Request) {
	html, err := a.renderer.RenderToString(a.config.NotFound())
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("<!DOCTYPE html>\n"))
	w.Write([]byte(html))
}

// =============================================================================
// Accessors & Lifecycle
// =============================================================================

// Router returns the underlying chi router, for mounting additional
// routes next to the gated pages. Most apps won't need this.
func (a *App) Router() chi.Router {
	return a.router
}

// Registry returns the page registry.
func (a *App) Registry() *route.Registry {
	return a.registry
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// Live returns the pending-view manager, or nil when the live channel
// is disabled.
func (a *App) Live() *live.Manager {
	return a.live
}

// Close releases background resources. The App must not serve requests
// afterwards.
func (a *App) Close() {
	if a.live != nil {
		a.live.Close()
	}
}

// Run starts the server and blocks until it fails.
//
//	app := gateview.New(cfg)
//	app.MustRegister(homePage)
//	app.Run(":8080")
func (a *App) Run(addr string) error {
	a.logger.Info("gateview listening", "addr", addr)
	return http.ListenAndServe(addr, a)
}

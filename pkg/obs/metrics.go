package obs

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gateview-dev/gateview/pkg/gate"
)

// MetricsConfig configures the Prometheus gate observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "gateview").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus gate observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "gateview",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for gate outcomes.
type metrics struct {
	outcomesTotal *prometheus.CounterVec
	denialsTotal  *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance, created on the first
// call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		outcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "outcomes_total",
			Help:        "Total gate render outcomes by page and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"page", "outcome"}),

		denialsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "denials_total",
			Help:        "Total gate denials by page and reason",
			ConstLabels: config.ConstLabels,
		}, []string{"page", "reason"}),
	}
}

// Prometheus creates a gate observer that counts outcomes.
//
// Metrics collected:
//   - gateview_outcomes_total: Counter of render outcomes by page and outcome
//   - gateview_denials_total: Counter of denials by page and reason
//
// Example:
//
//	cfg := gate.Config{
//	    Resolver: resolver,
//	    Observer: obs.Prometheus(obs.WithNamespace("myapp")),
//	}
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) gate.Observer {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return gate.ObserverFunc(func(ctx context.Context, o gate.Observation) {
		page := o.Page
		if page == "" {
			page = "/"
		}

		m.outcomesTotal.WithLabelValues(page, o.Outcome.String()).Inc()

		if o.Outcome == gate.OutcomeNotAuthorized {
			m.denialsTotal.WithLabelValues(page, categorizeReason(o.Reason)).Inc()
		}
	})
}

// categorizeReason keeps the reason label bounded. Requirement
// descriptions pass through; evaluation errors carry arbitrary error
// text and collapse to one value.
func categorizeReason(reason string) string {
	switch {
	case reason == "":
		return "unspecified"
	case strings.HasPrefix(reason, "evaluation failed"):
		return "evaluation_failed"
	default:
		return reason
	}
}

// Collector exposes the gate metrics for custom registrations.
type Collector struct {
	outcomesTotal *prometheus.CounterVec
	denialsTotal  *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector, or nil if the
// Prometheus observer has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()

	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		outcomesTotal: globalMetrics.outcomesTotal,
		denialsTotal:  globalMetrics.denialsTotal,
	}
}

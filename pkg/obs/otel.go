package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gateview-dev/gateview/pkg/gate"
)

// Default tracer name for gateview applications.
const defaultTracerName = "gateview"

// OTelConfig configures the OpenTelemetry gate observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "gateview").
	TracerName string

	// IncludeSubject includes the principal's subject in traces.
	// May contain sensitive information - disabled by default.
	IncludeSubject bool

	// AttributeExtractor extracts custom attributes from the
	// observation. Called for each observed outcome.
	AttributeExtractor func(o gate.Observation) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry gate observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeSubject enables including the principal's subject in traces.
func WithIncludeSubject(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeSubject = include
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(o gate.Observation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates a gate observer that records outcomes as trace
// data. When the request context already carries a recording span, the
// outcome is added to it as a span event; otherwise a short internal
// span is created so the outcome is not lost.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure
// it in your main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) gate.Observer {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return gate.ObserverFunc(func(ctx context.Context, o gate.Observation) {
		attrs := outcomeAttributes(config, o)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.AddEvent("gateview."+o.Outcome.String(), trace.WithAttributes(attrs...))
			return
		}

		_, span := config.tracer.Start(ctx, spanName(o),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		span.End()
	})
}

// outcomeAttributes builds the span attributes for an observation.
func outcomeAttributes(config OTelConfig, o gate.Observation) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gateview.page", o.Page),
		attribute.String("gateview.outcome", o.Outcome.String()),
	}

	if o.Path != "" {
		attrs = append(attrs, attribute.String("gateview.path", o.Path))
	}
	if o.Reason != "" {
		attrs = append(attrs, attribute.String("gateview.reason", o.Reason))
	}
	if config.IncludeSubject && o.Subject != "" {
		attrs = append(attrs, attribute.String("gateview.subject", o.Subject))
	}
	if config.AttributeExtractor != nil {
		attrs = append(attrs, config.AttributeExtractor(o)...)
	}

	return attrs
}

// spanName creates a span name from the observation.
func spanName(o gate.Observation) string {
	page := o.Page
	if page == "" {
		page = "/"
	}
	return "gateview " + page
}

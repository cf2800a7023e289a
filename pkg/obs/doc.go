// Package obs provides gate observers for Prometheus metrics and
// OpenTelemetry traces.
package obs

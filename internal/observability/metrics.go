// Package observability provides Prometheus metrics functionality for monitoring Quiltring.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/quiltring/quiltring/internal/observability/metrics"
)

// MetricFamily aliases the protobuf metric family returned by Gather.
type MetricFamily = dto.MetricFamily

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Roster   *metrics.RosterMetrics
	HTTP     *metrics.HTTPMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	rosterMetrics, err := metrics.NewRosterMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create roster metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Roster:   rosterMetrics,
		HTTP:     httpMetrics,
	}, nil
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Gather collects all registered metric families from the private registry.
func (m *Metrics) Gather() ([]*MetricFamily, error) {
	return m.registry.Gather()
}

// Package metrics provides custom Prometheus metrics for the Quiltring components.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RosterMetrics contains all Prometheus metrics related to static host fetches.
type RosterMetrics struct {
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	CacheHits           *prometheus.CounterVec
	CacheMisses         *prometheus.CounterVec
	StylesheetFallbacks prometheus.Counter
	registry            *prometheus.Registry
}

// NewRosterMetrics creates a new instance of RosterMetrics registered with the
// given Prometheus registry. It returns an error if registration fails.
func NewRosterMetrics(registry *prometheus.Registry) (*RosterMetrics, error) {
	m := &RosterMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register roster metrics: %w", err)
	}
	return m, nil
}

func (m *RosterMetrics) initMetrics() {
	m.FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_fetches_total",
		Help: "Total number of fetches against the static host.",
	}, []string{"resource", "result"}) // resource: index, markup, stylesheet; result: success, error

	m.FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_fetch_duration_seconds",
		Help:    "Duration of fetches against the static host in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	m.CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_cache_hits_total",
		Help: "Total number of asset cache hits.",
	}, []string{"resource"})

	m.CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_cache_misses_total",
		Help: "Total number of asset cache misses.",
	}, []string{"resource"})

	m.StylesheetFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_stylesheet_fallbacks_total",
		Help: "Total number of member pages rendered without a stylesheet because the stylesheet fetch failed.",
	})
}

// RecordFetch records the outcome and duration of one fetch.
func (m *RosterMetrics) RecordFetch(resource, result string, durationSeconds float64) {
	m.FetchesTotal.WithLabelValues(resource, result).Inc()
	m.FetchDuration.WithLabelValues(resource).Observe(durationSeconds)
}

// RecordCacheHit increases the cache hit counter for a resource kind.
func (m *RosterMetrics) RecordCacheHit(resource string) {
	m.CacheHits.WithLabelValues(resource).Inc()
}

// RecordCacheMiss increases the cache miss counter for a resource kind.
func (m *RosterMetrics) RecordCacheMiss(resource string) {
	m.CacheMisses.WithLabelValues(resource).Inc()
}

// RecordStylesheetFallback increases the style-less render counter by one.
func (m *RosterMetrics) RecordStylesheetFallback() {
	m.StylesheetFallbacks.Inc()
}

// Collect implements the prometheus.Collector interface.
func (m *RosterMetrics) Collect(ch chan<- prometheus.Metric) {
	m.FetchesTotal.Collect(ch)
	m.FetchDuration.Collect(ch)
	m.CacheHits.Collect(ch)
	m.CacheMisses.Collect(ch)
	ch <- m.StylesheetFallbacks
}

// Describe implements the prometheus.Collector interface.
func (m *RosterMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.FetchesTotal.Describe(ch)
	m.FetchDuration.Describe(ch)
	m.CacheHits.Describe(ch)
	m.CacheMisses.Describe(ch)
	ch <- m.StylesheetFallbacks.Desc()
}

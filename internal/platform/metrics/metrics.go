package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LookupsTotal       *prometheus.CounterVec
	ProviderFailures   *prometheus.CounterVec
	SyntheticFallbacks prometheus.Counter
	CacheHits          prometheus.Counter
	RequestDuration    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consulta_lookups_total",
			Help: "Total number of identity lookups by answering source",
		}, []string{"fonte"}),
		ProviderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consulta_provider_failures_total",
			Help: "Total number of provider attempt failures by provider and category",
		}, []string{"provider", "category"}),
		SyntheticFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulta_synthetic_fallbacks_total",
			Help: "Total number of lookups answered with synthetic contingency data",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulta_cache_hits_total",
			Help: "Total number of lookups answered from the result cache",
		}),
		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consulta_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordLookup counts a completed lookup for the source that answered it.
func (m *Metrics) RecordLookup(source string) {
	m.LookupsTotal.WithLabelValues(source).Inc()
}

// RecordProviderFailure counts a failed provider attempt.
func (m *Metrics) RecordProviderFailure(provider, category string) {
	m.ProviderFailures.WithLabelValues(provider, category).Inc()
}

// RecordSyntheticFallback counts a lookup answered by the synthesizer.
func (m *Metrics) RecordSyntheticFallback() {
	m.SyntheticFallbacks.Inc()
}

// RecordCacheHit counts a lookup answered from cache.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// ObserveRequestDuration records an HTTP request duration.
func (m *Metrics) ObserveRequestDuration(seconds float64) {
	m.RequestDuration.Observe(seconds)
}

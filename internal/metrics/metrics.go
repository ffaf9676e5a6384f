package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Success = "success"
	Failure = "failure"
)

// Metrics exposes the state of the clustering engine.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// New creates a new set of metrics on its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	p := NewPrometheusMetrics()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		registry:   registry,
		prometheus: p,
	}
}

// Sample counts a sample assigned to the given cluster.
func (m *Metrics) Sample(table string, cluster int) {
	m.prometheus.Samples.WithLabelValues(table, strconv.Itoa(cluster)).Inc()
}

// Fraction sets the share of samples of the given cluster.
func (m *Metrics) Fraction(table string, cluster int, fraction float64) {
	m.prometheus.Fractions.WithLabelValues(table, strconv.Itoa(cluster)).Set(fraction)
}

// Partitioning counts a partitioning request with its result.
func (m *Metrics) Partitioning(table string, err error) {
	result := Success
	if err != nil {
		result = Failure
	}
	m.prometheus.Partitionings.WithLabelValues(table, result).Inc()
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

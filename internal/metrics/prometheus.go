package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tile_brain"

// Prometheus holds the collectors of the clustering engine.
type Prometheus struct {
	Samples       *prometheus.CounterVec
	Fractions     *prometheus.GaugeVec
	Partitionings *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples",
				Help:      "Number of access samples assigned to each cluster.",
			}, []string{"table", "cluster"}),
		Fractions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cluster_fraction",
				Help:      "Share of the access samples assigned to each cluster.",
			}, []string{"table", "cluster"}),
		Partitionings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "partitionings",
				Help:      "Number of computed column to tile partitionings.",
			}, []string{"table", "result"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Samples, p.Fractions, p.Partitionings}
}

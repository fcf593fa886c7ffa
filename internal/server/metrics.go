package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "bionic"

	modeLabelName   = "mode"
	statusLabelName = "status"
	kindLabelName   = "kind"
)

// Metrics holds the service collectors. Each server registers its own set
// on the registry it is given.
type Metrics struct {
	RenderRequestsTotal  *prometheus.CounterVec
	RenderLatency        *prometheus.HistogramVec
	AnalyzerFailureTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RenderRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "render_requests_total",
				Help:      "count of render requests by mode and status",
			}, []string{modeLabelName, statusLabelName}),
		RenderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "render_latency_seconds",
				Help:      "latency of render requests",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			}, []string{modeLabelName}),
		AnalyzerFailureTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "analyzer_failures_total",
				Help:      "count of failed analyzer calls by kind",
			}, []string{kindLabelName}),
	}
	reg.MustRegister(m.RenderRequestsTotal, m.RenderLatency, m.AnalyzerFailureTotal)
	return m
}

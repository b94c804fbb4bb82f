// Package metrics provides Prometheus metrics collection for the medassist
// API. It exports HTTP request metrics plus counters tracking specialist
// invocations inside the orchestrator:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - specialist_invocations_total: Counter with specialist and outcome labels
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	SpecialistInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specialist_invocations_total",
			Help: "Specialist invocations by outcome (ok, empty, error)",
		},
		[]string{"specialist", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(SpecialistInvocations)
}

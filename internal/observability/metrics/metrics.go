// Package metrics registers the relay's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savingsboard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "savingsboard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	relayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savingsboard_relay_requests_total",
		Help: "Board actions by action and outcome",
	}, []string{"action", "outcome"})

	relayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "savingsboard_relay_duration_seconds",
		Help:    "Duration of upstream webhook calls",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
	}, []string{"action"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRelay counts a board action. Rejections before the upstream call
// (invalid JSON, invalid payload, missing config) pass a zero duration and
// are not added to the latency histogram.
func ObserveRelay(action, outcome string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	relayRequestsTotal.WithLabelValues(action, outcome).Inc()
	if duration > 0 {
		relayDuration.WithLabelValues(action).Observe(duration.Seconds())
	}
}

// Package metrics holds the Prometheus collectors of the web front end.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dplus_http_requests_total",
			Help: "Total HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dplus_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RouteDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dplus_route_decisions_total",
			Help: "Locale/country routing decisions, by mode, rule and action",
		},
		[]string{"mode", "rule", "action"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dplus_upstream_requests_total",
			Help: "Backend API requests, by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dplus_upstream_request_duration_seconds",
			Help:    "Backend API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dplus_response_cache_lookups_total",
			Help: "Backend response cache lookups, by result",
		},
		[]string{"result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dplus_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRouteDecision(mode, rule, action string) {
	RouteDecisions.WithLabelValues(mode, rule, action).Inc()
}

func RecordUpstream(endpoint, status string, duration time.Duration) {
	UpstreamRequests.WithLabelValues(endpoint, status).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func SetBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

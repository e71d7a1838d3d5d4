// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track request patterns and performance.
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ActiveConnections tracks the number of in-flight HTTP requests.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Board metrics track the card-orchestration engine.
var (
	// BoardRefreshesTotal counts board refreshes by mode (warm / forced).
	BoardRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_refreshes_total",
			Help: "Total number of board refreshes",
		},
		[]string{"mode"},
	)

	// BoardRefreshDuration measures the wall time of a full board refresh.
	BoardRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "board_refresh_duration_seconds",
			Help:    "Duration of a full board refresh in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// CardLoadsTotal counts per-card load outcomes by data kind and result.
	CardLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_loads_total",
			Help: "Total number of per-card data loads",
		},
		[]string{"kind", "result"},
	)

	// CacheOpsTotal counts cache store hits and misses by data kind.
	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_cache_ops_total",
			Help: "Total number of card cache lookups",
		},
		[]string{"kind", "outcome"},
	)
)

// Provider metrics track the external data sources.
var (
	// ProviderRequestsTotal counts outbound provider calls by provider and result.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of external provider requests",
		},
		[]string{"provider", "result"},
	)

	// ProviderRequestDuration measures provider call latency in seconds.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "External provider request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"provider"},
	)

	// AnalystCallDuration measures AI analyst call latency by operation.
	AnalystCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyst_call_duration_seconds",
			Help:    "AI analyst call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"operation"},
	)
)

// Auth metrics track authentication attempts.
var (
	// AuthRequestsTotal counts authentication attempts by result.
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)
)

package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockwatch/internal/handler/http/pathutil"
	"stockwatch/internal/handler/http/responsewriter"
	"stockwatch/internal/observability/metrics"
)

// Metrics records Prometheus request metrics. Ticker path segments are
// normalized so the path label stays bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)

		path := pathutil.NormalizePath(r.URL.Path)
		status := strconv.Itoa(rw.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).
			Observe(time.Since(start).Seconds())
	})
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

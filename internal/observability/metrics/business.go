package metrics

import "time"

// RecordCardLoad records the outcome of a single per-card data load.
// kind is one of the cache data kinds (price_sentiment, news, ...);
// result is "success", "degraded", or "cache_hit".
func RecordCardLoad(kind, result string) {
	CardLoadsTotal.WithLabelValues(kind, result).Inc()
}

// RecordCacheLookup records a cache store lookup outcome ("hit" or "miss").
func RecordCacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheOpsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordBoardRefresh records a completed board refresh.
func RecordBoardRefresh(forced bool, duration time.Duration) {
	mode := "warm"
	if forced {
		mode = "forced"
	}
	BoardRefreshesTotal.WithLabelValues(mode).Inc()
	BoardRefreshDuration.Observe(duration.Seconds())
}

// RecordProviderRequest records an outbound provider call and its latency.
func RecordProviderRequest(provider string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordAnalystCall records the latency of an AI analyst operation.
func RecordAnalystCall(operation string, duration time.Duration) {
	AnalystCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAuthRequest records an authentication attempt outcome.
func RecordAuthRequest(result string) {
	AuthRequestsTotal.WithLabelValues(result).Inc()
}

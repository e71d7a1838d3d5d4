package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_job_runs_total",
			Help: "Total digest job runs by outcome",
		},
		[]string{"status"},
	)

	jobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_job_duration_seconds",
			Help:    "Duration of digest job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	tickersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_tickers_processed_total",
			Help: "Total tickers processed across digest runs",
		},
	)

	lastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful digest run",
		},
	)
)

// RecordJobRun counts a run outcome: started, success or failure.
func RecordJobRun(status string) {
	jobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a completed run's duration.
func RecordJobDuration(d time.Duration) {
	jobDuration.Observe(d.Seconds())
}

// RecordTickersProcessed adds to the processed-ticker counter.
func RecordTickersProcessed(n int) {
	tickersProcessed.Add(float64(n))
}

// RecordLastSuccess stamps the last successful run at now.
func RecordLastSuccess() {
	lastSuccess.SetToCurrentTime()
}

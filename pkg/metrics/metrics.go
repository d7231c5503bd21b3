package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	SyncRunCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_run_count",
			Help: "Total number of account sync runs",
		},
		[]string{"status"}, // status: success, connection_failed, error, duplicate
	)

	SyncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_run_duration_seconds",
			Help:    "Account sync run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"kind"},
	)

	ColorValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "color_validation_failures_total",
			Help: "Total number of rejected color values",
		},
	)

	StatsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_hits_total",
			Help: "Folder/account statistics cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records one database query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordSyncRun records the outcome and duration of a sync run.
func RecordSyncRun(kind, status string, duration time.Duration) {
	SyncRunCount.WithLabelValues(status).Inc()
	SyncRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

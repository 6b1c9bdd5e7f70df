package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream feature-service query latency (milliseconds).
	UpstreamQueryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_query_latency_ms",
			Help:    "Feature service query latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"table", "status"},
	)

	// Upstream query failures, by failure kind.
	UpstreamQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_query_errors_total",
			Help: "Total number of failed feature service queries",
		},
		[]string{"table", "kind"}, // kind: network, api, decode
	)

	// Full portfolio refresh duration (seconds).
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_refresh_duration_seconds",
			Help:    "Duration of a full fetch-and-recompute cycle in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Override blob writes.
	OverrideSaveCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "override_save_count",
			Help: "Total number of status override saves",
		},
		[]string{"field", "status"}, // field: status, notes, actions, reset
	)

	// Snapshot cache outcomes.
	SnapshotCacheCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_count",
			Help: "Projects snapshot cache lookups",
		},
		[]string{"outcome"}, // outcome: hit, miss, bypass
	)
)

// RecordUpstreamQuery records one feature-service query.
func RecordUpstreamQuery(table, status string, duration time.Duration) {
	UpstreamQueryLatency.WithLabelValues(table, status).Observe(float64(duration.Milliseconds()))
}

// RecordUpstreamError counts one failed feature-service query.
func RecordUpstreamError(table, kind string) {
	UpstreamQueryErrors.WithLabelValues(table, kind).Inc()
}

// RecordRefresh records one full refresh cycle.
func RecordRefresh(duration time.Duration) {
	RefreshDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordOverrideSave counts one override mutation.
func RecordOverrideSave(field, status string) {
	OverrideSaveCount.WithLabelValues(field, status).Inc()
}

// RecordSnapshotCache counts one snapshot cache lookup.
func RecordSnapshotCache(outcome string) {
	SnapshotCacheCount.WithLabelValues(outcome).Inc()
}

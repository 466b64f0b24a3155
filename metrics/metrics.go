package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds, labelled by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Repository call latency in seconds
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "read_cache_lookups_total",
			Help: "Read cache lookups by entity and result",
		},
		[]string{"entity", "result"}, // result: hit, miss, error
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "read_cache_invalidations_total",
			Help: "Read cache invalidations by entity",
		},
		[]string{"entity"},
	)

	// Form submissions by outcome
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Admin and contact form submissions by entity and outcome",
		},
		[]string{"entity", "outcome"}, // outcome: success, validation, upload, remote
	)

	UploadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_upload_bytes_total",
			Help: "Bytes uploaded to blob storage by bucket",
		},
		[]string{"bucket"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordCacheLookup(entity, result string) {
	CacheLookups.WithLabelValues(entity, result).Inc()
}

func RecordCacheInvalidation(entity string) {
	CacheInvalidations.WithLabelValues(entity).Inc()
}

func RecordFormSubmission(entity, outcome string) {
	FormSubmissions.WithLabelValues(entity, outcome).Inc()
}

func RecordUpload(bucket string, size int64) {
	UploadBytes.WithLabelValues(bucket).Add(float64(size))
}

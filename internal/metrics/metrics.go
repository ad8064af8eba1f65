package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks API calls by method and status code
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "status"},
	)

	// RequestErrors tracks failed API calls by error class
	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_request_errors_total",
			Help: "Total number of failed API requests",
		},
		[]string{"method", "class"},
	)

	// RequestLatency tracks API call latency
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_latency_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// RequestsInFlight tracks requests currently outstanding
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_requests_in_flight",
			Help: "Number of API requests currently in flight",
		},
	)

	// RetriesTotal tracks scheduled retry attempts per call label
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_retries_total",
			Help: "Total number of retry attempts scheduled",
		},
		[]string{"label"},
	)

	// RetriesExhausted tracks calls that failed after their final attempt
	RetriesExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_retries_exhausted_total",
			Help: "Total number of calls that exhausted their retry budget",
		},
		[]string{"label"},
	)

	// CacheHits tracks gateway cache hits per resource
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_cache_hits_total",
			Help: "Total number of gateway cache hits",
		},
		[]string{"resource"},
	)

	// CacheMisses tracks gateway cache misses per resource
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_cache_misses_total",
			Help: "Total number of gateway cache misses",
		},
		[]string{"resource"},
	)
)

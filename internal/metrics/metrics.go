// Package metrics defines Prometheus metrics for hwaccess.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hwaccess"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Token metrics.
var (
	TokenAcquisitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_acquisitions_total",
		Help:      "Total credential acquisition attempts by result (success, failure).",
	}, []string{"result"})

	TokenAcquisitionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_acquisition_duration_seconds",
		Help:      "Duration of credential acquisitions in seconds.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	TokenInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_invalidations_total",
		Help:      "Total number of times the cached credential was invalidated.",
	})

	TokenAcquiredTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "token_acquired_timestamp_seconds",
		Help:      "Unix time at which the current credential was stored.",
	})
)

// Polling metrics.
var (
	PollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "polls_total",
		Help:      "Total inventory polls by outcome.",
	}, []string{"outcome"})

	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "poll_duration_seconds",
		Help:      "Duration of single inventory requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Total completed polling cycles.",
	})

	ConsecutiveFailures = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "consecutive_failures",
		Help:      "Current consecutive failure count of the polling session.",
	})

	TrackedProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_products",
		Help:      "Number of products currently tracked.",
	})

	ProductQuantity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "product_total_quantity",
		Help:      "Last observed total inventory per product.",
	}, []string{"product_id"})

	ProductMaxQuantity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "product_max_available_quantity",
		Help:      "Last observed max available (or backordered) quantity per product.",
	}, []string{"product_id"})
)

// History and event metrics.
var (
	LogWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_write_failures_total",
		Help:      "Total observation log rows that failed to persist.",
	})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total events dropped because the consumer was not keeping up.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook calls.",
		Buckets:   prometheus.DefBuckets,
	})
)

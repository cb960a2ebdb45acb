package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mangacat"

var (
	registerOnce sync.Once

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Collection operations by name and result",
	}, []string{"op", "result"})
	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Collection operation durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"op"})

	providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Requests made to the metadata provider by call and result",
	}, []string{"op", "result"})
	providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Metadata provider request durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	}, []string{"op"})

	refreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_failures_total",
		Help:      "Entries skipped during bulk metadata refresh",
	})

	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter by route",
	}, []string{"route"})

	collectionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collection_entries",
		Help:      "Number of entries in the collection at the last listing",
	})
	stagedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "staged_results",
		Help:      "Number of search results currently staged for import",
	})
)

// Register adds the collectors to the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(operations, operationDuration, providerRequests, providerDuration,
			refreshFailures, rateLimited, collectionGauge, stagedGauge)
	})
}

// Result labels an outcome as ok, canceled or error
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func ObserveOperation(op string, err error, d time.Duration) {
	operations.WithLabelValues(op, Result(err)).Inc()
	operationDuration.WithLabelValues(op).Observe(d.Seconds())
}

func ObserveProviderCall(op string, err error, d time.Duration) {
	providerRequests.WithLabelValues(op, Result(err)).Inc()
	providerDuration.WithLabelValues(op).Observe(d.Seconds())
}

func AddRefreshFailures(n int)    { refreshFailures.Add(float64(n)) }
func IncRateLimited(route string) { rateLimited.WithLabelValues(route).Inc() }
func SetCollection(n int)         { collectionGauge.Set(float64(n)) }
func SetStaged(n int)             { stagedGauge.Set(float64(n)) }

// Package metrics defines the Prometheus collectors for the storefront client.
//
// Collectors are registered on package import through promauto; the Record*
// helpers are what the router and basket cache call.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "storefront_client"

var (
	// RouterAttemptsTotal counts individual HTTP attempts by call name and outcome.
	RouterAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "attempts_total",
			Help:      "Total number of HTTP attempts by call and outcome",
		},
		[]string{"call", "outcome"}, // outcome: response, transport_error
	)

	// RouterRetriesTotal counts retries scheduled after a transport failure.
	RouterRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "retries_total",
			Help:      "Total number of retries scheduled after transport failures",
		},
		[]string{"call"},
	)

	// RouterExhaustedTotal counts calls that gave up with a connectivity error.
	RouterExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "exhausted_total",
			Help:      "Total number of calls that exhausted all attempts",
		},
		[]string{"call"},
	)

	// RouterRequestDurationSeconds measures a routed call including retries.
	RouterRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "request_duration_seconds",
			Help:      "Duration of routed calls in seconds, including backoff",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	// BasketFetchesTotal counts basket fetches that reached the network.
	BasketFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "fetches_total",
			Help:      "Total number of basket fetches by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	// BasketCacheHitsTotal counts GetBasket calls served from cache or an in-flight fetch.
	BasketCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "cache_hits_total",
			Help:      "Total number of basket reads served without a new fetch",
		},
	)

	// BasketMutationsTotal counts basket mutations by operation and outcome.
	BasketMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "mutations_total",
			Help:      "Total number of basket mutations by operation and outcome",
		},
		[]string{"operation", "outcome"}, // operation: add, update_quantity, remove; outcome: success, failure, noop, rejected
	)
)

// RecordAttempt records one HTTP attempt.
func RecordAttempt(call string, transportErr bool) {
	outcome := "response"
	if transportErr {
		outcome = "transport_error"
	}
	RouterAttemptsTotal.WithLabelValues(callLabel(call), outcome).Inc()
}

// RecordRetry records a scheduled retry.
func RecordRetry(call string) {
	RouterRetriesTotal.WithLabelValues(callLabel(call)).Inc()
}

// RecordExhausted records a call that ran out of attempts.
func RecordExhausted(call string) {
	RouterExhaustedTotal.WithLabelValues(callLabel(call)).Inc()
}

// ObserveRequestDuration records the total duration of a routed call.
func ObserveRequestDuration(call string, d time.Duration) {
	RouterRequestDurationSeconds.WithLabelValues(callLabel(call)).Observe(d.Seconds())
}

// RecordBasketFetch records a basket fetch outcome.
func RecordBasketFetch(success bool) {
	BasketFetchesTotal.WithLabelValues(outcomeLabel(success)).Inc()
}

// RecordBasketCacheHit records a basket read that did not trigger a fetch.
func RecordBasketCacheHit() {
	BasketCacheHitsTotal.Inc()
}

// RecordBasketMutation records a basket mutation outcome.
func RecordBasketMutation(operation, outcome string) {
	BasketMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// CounterValue reads the current value of c.
func CounterValue(c prometheus.Counter) float64 {
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		return 0
	}
	if metric.Counter != nil {
		return metric.Counter.GetValue()
	}
	return 0
}

func callLabel(call string) string {
	if call == "" {
		return "unnamed"
	}
	return call
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

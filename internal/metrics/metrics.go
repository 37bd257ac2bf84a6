package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurant_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AccessDecisions counts route guard outcomes. reason is "allow" or a denial reason.
	AccessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_access_decisions_total",
			Help: "Access policy decisions by reason",
		},
		[]string{"reason"},
	)

	PaymentProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_payment_provider_calls_total",
			Help: "Payment provider calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	PaymentProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurant_payment_provider_duration_seconds",
			Help:    "Payment provider call latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	LoginThrottled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_login_throttled_total",
			Help: "Login attempts rejected by the rate limiter",
		},
		[]string{"realm"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAccessDecision(reason string) {
	AccessDecisions.WithLabelValues(reason).Inc()
}

func RecordProviderCall(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PaymentProviderCalls.WithLabelValues(operation, outcome).Inc()
	PaymentProviderDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordLoginThrottled(realm string) {
	LoginThrottled.WithLabelValues(realm).Inc()
}

package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	accountEventsTotal  *prometheus.CounterVec
	registerOnce        sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the bookstore API.",
		}, []string{"method", "path", "status"})

		httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookstore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"})

		accountEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "account_events_total",
			Help:      "Account operations by outcome (signup, login, report, role_change, favorite).",
		}, []string{"event", "outcome"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func ObserveDuration(method, path string, seconds float64) {
	if httpRequestDuration == nil {
		return
	}
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// IncAccountEvent records the outcome of an account operation.
func IncAccountEvent(event, outcome string) {
	if accountEventsTotal == nil {
		return
	}
	accountEventsTotal.WithLabelValues(event, outcome).Inc()
}

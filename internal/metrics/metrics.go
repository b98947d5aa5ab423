// Package metrics exposes Prometheus instruments for provider attempts and
// inbound HTTP traffic.
//
// Metrics:
//   - newsgate_provider_attempts_total: attempts by provider and outcome kind
//   - newsgate_provider_attempt_duration_seconds: attempt latency by provider
//   - newsgate_failover_exhausted_total: requests where every provider failed
//   - newsgate_http_requests_total: inbound requests by method and status
//   - newsgate_http_request_duration_seconds: inbound request latency
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsgate"

// Recorder holds the registered instruments.
type Recorder struct {
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	exhausted       prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRecorder creates the instruments and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Total number of provider attempts by outcome kind",
			},
			[]string{"provider", "outcome"},
		),
		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_attempt_duration_seconds",
				Help:      "Provider attempt latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),
		exhausted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failover_exhausted_total",
				Help:      "Total number of requests where every provider failed",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of inbound HTTP requests",
			},
			[]string{"method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Inbound HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	reg.MustRegister(
		r.attempts,
		r.attemptDuration,
		r.exhausted,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// ObserveAttempt records one provider attempt.
func (r *Recorder) ObserveAttempt(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(provider, outcome).Inc()
	r.attemptDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// IncExhausted records a request where every provider failed.
func (r *Recorder) IncExhausted() {
	if r == nil {
		return
	}
	r.exhausted.Inc()
}

// ObserveRequest records one inbound HTTP request.
func (r *Recorder) ObserveRequest(method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

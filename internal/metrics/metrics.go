package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamed0406/geocheck/internal/domain"
)

const namespace = "geocheck"

// Metrics groups every collector the service exports. A nil *Metrics is
// valid and records nothing, which keeps tests free of registries.
type Metrics struct {
	ChecksRequested *prometheus.CounterVec
	ChecksResolved  *prometheus.CounterVec
	ResponseTime    prometheus.Histogram
	ChecksInFlight  prometheus.Gauge

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksRequested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_requested_total",
			Help:      "Check requests by result (accepted, invalid, busy).",
		}, []string{"result"}),

		ChecksResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_resolved_total",
			Help:      "Resolved checks by status and HTTP code.",
		}, []string{"status", "code"}),

		ResponseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_response_time_ms",
			Help:      "Reported response time of resolved checks.",
			Buckets:   []float64{50, 100, 150, 200, 300, 400, 550},
		}),

		ChecksInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checks_in_flight",
			Help:      "Checks currently waiting for resolution.",
		}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.ChecksRequested,
		m.ChecksResolved,
		m.ResponseTime,
		m.ChecksInFlight,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)
	return m
}

func (m *Metrics) Requested(result string) {
	if m == nil {
		return
	}
	m.ChecksRequested.WithLabelValues(result).Inc()
	if result == "accepted" {
		m.ChecksInFlight.Inc()
	}
}

// Resolved records a terminal attempt.
func (m *Metrics) Resolved(a domain.CheckAttempt) {
	if m == nil || !a.Status.Terminal() {
		return
	}
	code := "none"
	if a.HTTPStatusCode != nil {
		code = strconv.Itoa(*a.HTTPStatusCode)
	}
	m.ChecksResolved.WithLabelValues(string(a.Status), code).Inc()
	if a.ResponseTimeMS != nil {
		m.ResponseTime.Observe(float64(*a.ResponseTimeMS))
	}
	m.ChecksInFlight.Dec()
}

// Abandoned records a pending check that will never resolve.
func (m *Metrics) Abandoned() {
	if m == nil {
		return
	}
	m.ChecksInFlight.Dec()
}

// ObserveHTTP records one served request. path is the route pattern, not
// the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// Handler serves the metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vision"

// Metrics holds the proxy's collectors. Construct one per registry.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	upstreamCalls   *prometheus.CounterVec
	pollAttempts    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Vision requests by response status code.",
		}, []string{"code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time to answer a vision request.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
		}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Calls to the prediction provider by operation and result.",
		}, []string{"op", "result"}),
		pollAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_attempts",
			Help:      "Poll attempts made per polled prediction.",
			Buckets:   prometheus.LinearBuckets(0, 5, 7),
		}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.upstreamCalls, m.pollAttempts)

	return m
}

func (m *Metrics) ObserveRequest(code int, d time.Duration) {
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
	m.requestDuration.Observe(d.Seconds())
}

func (m *Metrics) UpstreamCall(op, result string) {
	m.upstreamCalls.WithLabelValues(op, result).Inc()
}

func (m *Metrics) PollAttempts(n int) {
	m.pollAttempts.Observe(float64(n))
}

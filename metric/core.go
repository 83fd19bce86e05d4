package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all gateway-level metrics.
type Metrics struct {
	// HTTP front metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge

	// Broker invocation metrics
	BrokerInvokeDuration *prometheus.HistogramVec
	BrokerErrorsTotal    *prometheus.CounterVec

	// Broker connection metrics
	BrokerConnected      prometheus.Gauge
	BrokerRTT            prometheus.Gauge
	BrokerReconnects     prometheus.Counter
	BrokerCircuitBreaker prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all gateway metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apigw",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled, by mount, action and status code.",
			},
			[]string{"mount", "action", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apigw",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "End-to-end HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mount", "action"},
		),

		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apigw",
				Subsystem: "http",
				Name:      "active_requests",
				Help:      "Number of HTTP requests currently being handled.",
			},
		),

		BrokerInvokeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "invoke_duration_seconds",
				Help:      "Broker action round-trip duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),

		BrokerErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "errors_total",
				Help:      "Total number of broker invocation errors, by action and error class.",
			},
			[]string{"action", "class"},
		),

		BrokerConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "connected",
				Help:      "Broker connection status (0=disconnected, 1=connected).",
			},
		),

		BrokerRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "rtt_milliseconds",
				Help:      "Broker round-trip time in milliseconds.",
			},
		),

		BrokerReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "reconnects_total",
				Help:      "Total number of broker reconnections.",
			},
		),

		BrokerCircuitBreaker: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apigw",
				Subsystem: "broker",
				Name:      "circuit_breaker",
				Help:      "Broker circuit breaker status (0=closed, 1=open, 2=half-open).",
			},
		),
	}
}

// RecordRequest records the outcome of a completed HTTP request.
func (m *Metrics) RecordRequest(mount, action, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(mount, action, status).Inc()
	m.RequestDuration.WithLabelValues(mount, action).Observe(duration.Seconds())
}

// RecordBrokerInvoke records the outcome of a broker round trip.
func (m *Metrics) RecordBrokerInvoke(action string, duration time.Duration) {
	m.BrokerInvokeDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordBrokerError increments the broker error counter for an action/class pair.
func (m *Metrics) RecordBrokerError(action, class string) {
	m.BrokerErrorsTotal.WithLabelValues(action, class).Inc()
}

// RecordBrokerStatus updates broker connection status.
func (m *Metrics) RecordBrokerStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	m.BrokerConnected.Set(value)
}

// RecordBrokerRTT updates broker round-trip time.
func (m *Metrics) RecordBrokerRTT(rtt time.Duration) {
	m.BrokerRTT.Set(float64(rtt.Milliseconds()))
}

// RecordBrokerReconnect increments the broker reconnection counter.
func (m *Metrics) RecordBrokerReconnect() {
	m.BrokerReconnects.Inc()
}

// RecordCircuitBreakerState updates the broker circuit breaker status.
func (m *Metrics) RecordCircuitBreakerState(state int) {
	m.BrokerCircuitBreaker.Set(float64(state))
}

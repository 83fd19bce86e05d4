package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistry_RegistersCoreMetrics(t *testing.T) {
	r := NewMetricsRegistry()

	// Vec collectors only appear in Gather output once a label combination
	// has been observed, so record one sample for each before gathering.
	r.CoreMetrics().RecordRequest("/api", "test.hello", "200", time.Millisecond)
	r.CoreMetrics().RecordBrokerInvoke("test.hello", time.Millisecond)

	mfs, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	require.True(t, names["apigw_http_requests_total"])
	require.True(t, names["apigw_http_request_duration_seconds"])
	require.True(t, names["apigw_broker_invoke_duration_seconds"])
}

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api", "test.hello", "200", 15*time.Millisecond)

	require.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api", "test.hello", "200")))
}

func TestMetrics_RecordBrokerInvokeAndError(t *testing.T) {
	m := NewMetrics()
	m.RecordBrokerInvoke("math.add", 5*time.Millisecond)
	m.RecordBrokerError("math.add", "transient")

	require.Equal(t, float64(1), testutil.ToFloat64(m.BrokerErrorsTotal.WithLabelValues("math.add", "transient")))
}

func TestMetrics_RecordBrokerStatus(t *testing.T) {
	m := NewMetrics()
	m.RecordBrokerStatus(true)
	require.Equal(t, float64(1), testutil.ToFloat64(m.BrokerConnected))

	m.RecordBrokerStatus(false)
	require.Equal(t, float64(0), testutil.ToFloat64(m.BrokerConnected))
}

func TestMetricsRegistry_DuplicateRegistrationFails(t *testing.T) {
	r := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total"})
	require.NoError(t, r.RegisterCounter("widgets", "custom_total", counter))

	counter2 := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total_2"})
	require.Error(t, r.RegisterCounter("widgets", "custom_total", counter2))
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	r := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "ephemeral_total"})
	require.NoError(t, r.RegisterCounter("widgets", "ephemeral_total", counter))
	require.True(t, r.Unregister("widgets", "ephemeral_total"))
	require.False(t, r.Unregister("widgets", "ephemeral_total"))
}

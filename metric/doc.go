// Package metric provides Prometheus-based metrics collection for the
// gateway: request/response counters and latency, broker invocation latency
// and errors, and broker connection health.
//
// # Architecture
//
// NewMetricsRegistry builds a Prometheus registry, registers the gateway's
// core Metrics (Metrics type), and adds the standard Go runtime collectors.
// Additional service-specific metrics can be registered through the
// MetricsRegistrar interface without risking a name collision with the core
// set — duplicate registration, by this registry or by Prometheus itself,
// returns an error instead of panicking.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	core := registry.CoreMetrics()
//
//	start := time.Now()
//	// ... handle request, invoke broker ...
//	core.RecordRequest(mountPath, action, status, time.Since(start))
//
// The gateway's HTTP front mounts registry.PrometheusRegistry() behind
// promhttp.HandlerFor at /metrics directly — a separate metrics listener
// would duplicate the gateway's own server for no benefit at this scale.
//
// # Metric Names
//
// All core metrics use namespace "apigw":
//
//   - apigw_http_requests_total{mount,action,status}
//   - apigw_http_request_duration_seconds{mount,action}
//   - apigw_http_active_requests
//   - apigw_broker_invoke_duration_seconds{action}
//   - apigw_broker_errors_total{action,class}
//   - apigw_broker_connected
//   - apigw_broker_rtt_milliseconds
//   - apigw_broker_reconnects_total
//   - apigw_broker_circuit_breaker
//
// # Thread Safety
//
// Registry operations are mutex-protected; metric recording itself is
// lock-free, per Prometheus's own guarantees.
package metric

package nats

import "time"

// WithFastStartup configures the test container for fastest possible startup,
// suitable for unit tests that only need a handful of request/reply round trips.
func WithFastStartup() TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = 2 * time.Second
		cfg.startTimeout = 10 * time.Second
	}
}

// WithIntegrationDefaults configures the test container with settings good
// for broker integration tests.
func WithIntegrationDefaults() TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = 5 * time.Second
		cfg.startTimeout = 30 * time.Second
	}
}

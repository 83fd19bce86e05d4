// Package nats provides a resilient NATS connection manager used as the
// transport underneath the broker's request/reply adapter.
//
// It wraps the standard NATS Go client with a circuit breaker, exponential
// backoff on reconnect, and context-first APIs. Unlike a general-purpose NATS
// client, it exposes only what an API gateway needs: connect, request/reply,
// health, close. JetStream, key-value, and subject subscriptions belong to
// the services behind the broker, not to the gateway in front of it.
//
// # Basic usage
//
//	client, err := nats.NewClient("nats://localhost:4222")
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	reply, err := client.Request(ctx, "math.add", []byte(`{"a":5,"b":8}`))
//
// # Circuit breaker
//
// After WithCircuitBreakerThreshold consecutive failures (default 5), the
// circuit opens and Connect fails fast with ErrCircuitOpen instead of
// blocking on a doomed dial. The circuit tests itself again after an
// exponentially increasing backoff, capped by WithMaxBackoff.
//
// # Testing
//
// NewTestClient spins up a disposable NATS server via testcontainers-go and
// returns a connected Client, for integration tests that want real broker
// behavior instead of an in-process fake.
package nats

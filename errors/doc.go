// Package errors provides standardized error handling patterns for the gateway.
//
// # Overview
//
// The package implements two complementary error models:
//
//   - A three-class internal classification (Transient, Invalid, Fatal) used by
//     the broker connection manager and other infrastructure code to make retry
//     and circuit-breaker decisions without string matching.
//   - An HTTP-facing taxonomy (HTTPError) used by the gateway's request pipeline
//     to turn action and routing failures into the correct status code and JSON
//     error body.
//
// # Error Classification
//
//   - Transient: network timeouts, connection issues, temporary unavailability (retry recommended)
//   - Invalid: malformed input, validation failures, bad configuration (do not retry)
//   - Fatal: resource exhaustion, corruption, unrecoverable states (stop processing)
//
// Classification integrates with errors.Is/As and wrapping chains:
//
//	if err := client.Connect(ctx); err != nil {
//	    if errors.IsTransient(err) {
//	        // retry with backoff
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All wrapping follows "component.method: action failed: %w":
//
//	errors.WrapTransient(err, "nats", "Connect", "dial")
//	errors.WrapInvalid(err, "tlsutil", "LoadServerTLSConfig", "parse certificate pair")
//	errors.WrapFatal(err, "resolver", "Resolve", "load route table")
//
// # HTTP Error Taxonomy
//
// Request-pipeline stages return *HTTPError (or a plain error, treated as an
// InternalError) so the HTTP front can render a consistent JSON body without
// inspecting stage-specific error types:
//
//	if route == nil {
//	    return errors.NotFound("no route matched " + path)
//	}
//	if !valid {
//	    return errors.Validation("body failed schema validation", failures)
//	}
//
// AsHTTPError recovers the HTTPError from a wrapped error chain, or produces a
// generic 500 InternalError when none is present.
package errors

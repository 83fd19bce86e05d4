// Package gateway translates HTTP requests into broker action invocations
// and serializes the polymorphic action result back to the client.
//
// # Pipeline
//
//	HTTP request -> server.handle -> resolver.Resolve -> parseBody -> broker.Client.Invoke -> materialize
//
// A request that matches no configured mount falls through to the asset
// server; a miss there is a plain 404.
//
// # Resolution
//
// Each Route Configuration compiles into a mount (route_table.go): a path
// prefix, a compiled whitelist, an alias lookup keyed by (method, path) and
// (*, path), and an optional rate limiter. The resolver tries mounts in
// declaration order, resolves an alias or falls back to deriving an action
// name from the path ("/test/hello" -> "test.hello"), and enforces the
// whitelist after alias resolution.
//
// # Lifecycle
//
// Service (facade.go) owns construction from Config, binding the listening
// socket, connecting the broker adapter, and draining on shutdown within a
// bounded grace period.
package gateway

package broker

import (
	"context"

	"github.com/sembus/apigw/errors"
)

// Client is the gateway's contract with the service broker: invoke a named
// action with a parameter mapping and get back a typed Result, or a typed
// error. Implementations must be safe for concurrent use by multiple
// goroutines; a Client carries no per-call state.
type Client interface {
	// Invoke dispatches actionName with params and waits for the broker's
	// reply, honoring ctx cancellation and deadline.
	Invoke(ctx context.Context, actionName string, params map[string]any) (Result, error)
}

// Connector is implemented by Client adapters that own a connection
// lifecycle (the NATS adapter; not the in-process adapter).
type Connector interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
}

// ServiceNotFoundError reports that actionName has no registered handler.
// Mirrors the broker's own ServiceNotFoundError message shape so the
// gateway's whitelist-rejection path and the broker's own "unknown action"
// path produce byte-identical error bodies.
func ServiceNotFoundError(actionName string) error {
	return errors.ServiceNotFound(actionName)
}

package broker

import (
	"context"
	"sync"

	"github.com/sembus/apigw/errors"
)

// Handler implements one broker action in-process.
type Handler func(ctx context.Context, params map[string]any) (Result, error)

// Memory is an in-process Client, for tests and local demos that don't want
// a real NATS deployment. Handlers are registered by action name; an
// unregistered action behaves exactly like the NATS adapter's unknown-action
// path, returning the broker's own ServiceNotFoundError.
type Memory struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewMemory creates an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{handlers: make(map[string]Handler)}
}

// Register binds action to handler, overwriting any previous registration.
func (m *Memory) Register(action string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[action] = handler
}

// Invoke implements Client.
func (m *Memory) Invoke(ctx context.Context, actionName string, params map[string]any) (Result, error) {
	m.mu.RLock()
	handler, ok := m.handlers[actionName]
	m.mu.RUnlock()

	if !ok {
		return Result{}, ServiceNotFoundError(actionName)
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	return handler(ctx, params)
}

// NewDemoMemory builds an in-process broker pre-registered with the three
// example actions used throughout the gateway's own test suite:
// test.hello, test.greeter, and math.add.
func NewDemoMemory() *Memory {
	m := NewMemory()

	m.Register("test.hello", func(_ context.Context, _ map[string]any) (Result, error) {
		return TextResult("Hello Moleculer"), nil
	})

	m.Register("test.greeter", func(_ context.Context, params map[string]any) (Result, error) {
		name, ok := ParamString(params, "name")
		if !ok || name == "" {
			return Result{}, errors.Validation("parameters validation error", map[string]any{
				"name": "The 'name' field is required.",
			})
		}
		return TextResult("Hello " + name), nil
	})

	m.Register("math.add", func(_ context.Context, params map[string]any) (Result, error) {
		a, aOK := ParamFloat(params, "a")
		b, bOK := ParamFloat(params, "b")
		if !aOK || !bOK {
			return Result{}, errors.Validation("parameters validation error", map[string]any{
				"a": "The 'a' field must be a number.",
				"b": "The 'b' field must be a number.",
			})
		}
		return NumberResult(a + b), nil
	})

	return m
}

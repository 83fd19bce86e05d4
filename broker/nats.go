package broker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/sembus/apigw/errors"
	"github.com/sembus/apigw/internal/nats"
	"github.com/sembus/apigw/pkg/retry"
)

// NATSAdapter is the production Client: it invokes actions as NATS
// request/reply calls, subject-per-action, using the resilient connection
// manager in internal/nats.
type NATSAdapter struct {
	conn *nats.Client
}

// NewNATSAdapter wraps an already-configured (but not necessarily connected)
// connection manager.
func NewNATSAdapter(conn *nats.Client) *NATSAdapter {
	return &NATSAdapter{conn: conn}
}

// Connect establishes the underlying NATS connection, retrying with
// exponential backoff per retry.Persistent() so a gateway started before its
// broker is reachable doesn't fail hard on the first attempt.
func (a *NATSAdapter) Connect(ctx context.Context) error {
	return retry.Do(ctx, retry.Persistent(), func() error {
		return a.conn.Connect(ctx)
	})
}

// Close tears down the underlying NATS connection.
func (a *NATSAdapter) Close(ctx context.Context) error {
	return a.conn.Close(ctx)
}

// Invoke implements Client.
func (a *NATSAdapter) Invoke(ctx context.Context, actionName string, params map[string]any) (Result, error) {
	reqBody, err := json.Marshal(wireRequest{Params: params})
	if err != nil {
		return Result{}, errors.InternalError(err)
	}

	data, err := a.conn.Request(ctx, actionName, reqBody)
	if err != nil {
		if stderrors.Is(err, natsgo.ErrNoResponders) {
			return Result{}, ServiceNotFoundError(actionName)
		}
		if ctx.Err() != nil {
			return Result{}, errors.RequestTimeout(actionName)
		}
		return Result{}, errors.ServiceError(err)
	}

	var reply wireReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return Result{}, errors.InternalError(err)
	}

	if !reply.OK {
		return Result{}, wireErrorToHTTPError(reply.Error)
	}
	if reply.Result == nil {
		return NullResult(), nil
	}
	result, err := DecodeResult(reply.Result)
	if err != nil {
		return Result{}, errors.InternalError(err)
	}
	return result, nil
}

// wireErrorToHTTPError maps a broker-reported error onto the gateway's HTTP
// taxonomy, preferring the broker's own code/name when present and falling
// back to a generic ServiceError.
func wireErrorToHTTPError(we *wireError) error {
	if we == nil {
		return errors.ServiceError(nil)
	}

	var data any
	if len(we.Data) > 0 {
		_ = json.Unmarshal(we.Data, &data)
	}

	status := we.Code
	if status < 400 || status > 599 {
		status = 500
	}

	name := we.Name
	if name == "" {
		name = "ServiceError"
	}

	return &errors.HTTPError{Status: status, Name: name, Msg: we.Message, Data: data}
}

// RTT exposes the underlying connection's measured round-trip time, for
// health reporting.
func (a *NATSAdapter) RTT() (time.Duration, error) {
	return a.conn.RTT()
}

// IsHealthy reports whether the underlying connection is currently usable.
func (a *NATSAdapter) IsHealthy() bool {
	return a.conn.IsHealthy()
}

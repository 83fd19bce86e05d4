package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sembus/apigw/broker"
	"github.com/sembus/apigw/metric"
)

// connectingMemory wraps broker.Memory with a Connector implementation, so
// Service's lifecycle wiring can be exercised without a real NATS adapter.
type connectingMemory struct {
	*broker.Memory
	connectCalls int
	closeCalls   int
}

func (c *connectingMemory) Connect(context.Context) error {
	c.connectCalls++
	return nil
}

func (c *connectingMemory) Close(context.Context) error {
	c.closeCalls++
	return nil
}

func freePort(t *testing.T) int {
	t.Helper()
	return 19000 + (len(t.Name()) % 999)
}

func TestService_New_ValidatesConfig(t *testing.T) {
	_, err := New(Config{}, broker.NewDemoMemory(), nil, nil)
	require.Error(t, err)
}

// NewWithNATS never dials until Started is called, so construction with a
// TLS-enabled broker config should succeed even with no broker reachable.
func TestService_NewWithNATS_WiresBrokerTLSConfig(t *testing.T) {
	cfg := Config{
		Port:   freePort(t),
		Routes: []RouteConfig{{}},
		Broker: BrokerConfig{
			URL: "nats://127.0.0.1:4222",
			TLS: &BrokerTLSConfig{InsecureSkipVerify: true},
		},
	}

	svc, err := NewWithNATS(cfg, metric.NewMetricsRegistry(), nil)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestService_New_FallsBackToNoopConnectorForNonConnectorClient(t *testing.T) {
	cfg := Config{Port: freePort(t), Broker: BrokerConfig{URL: "nats://127.0.0.1:4222"}}
	svc, err := New(cfg, broker.NewDemoMemory(), nil, nil)
	require.NoError(t, err)

	_, ok := svc.client.(noopConnector)
	require.True(t, ok)
}

func TestService_Lifecycle_StartedAndStopped(t *testing.T) {
	cfg := Config{Port: freePort(t), Broker: BrokerConfig{URL: "nats://127.0.0.1:4222"}}
	client := &connectingMemory{Memory: broker.NewDemoMemory()}

	svc, err := New(cfg, client, metric.NewMetricsRegistry(), nil)
	require.NoError(t, err)

	_, ok := svc.client.(*connectingMemory)
	require.True(t, ok)

	ctx := context.Background()
	require.NoError(t, svc.Started(ctx))
	require.Equal(t, 1, client.connectCalls)

	// Starting again is a no-op.
	require.NoError(t, svc.Started(ctx))
	require.Equal(t, 1, client.connectCalls)

	require.NoError(t, svc.Stopped(ctx, 2*time.Second))
	require.Equal(t, 1, client.closeCalls)

	// Stopping again is a no-op.
	require.NoError(t, svc.Stopped(ctx, 2*time.Second))
	require.Equal(t, 1, client.closeCalls)
}

func TestService_IsHTTPS(t *testing.T) {
	cfg := Config{Port: freePort(t), Broker: BrokerConfig{URL: "nats://127.0.0.1:4222"}}
	svc, err := New(cfg, broker.NewDemoMemory(), nil, nil)
	require.NoError(t, err)
	require.False(t, svc.IsHTTPS())

	cfg.HTTPS = &HTTPSConfig{Key: []byte("k"), Cert: []byte("c")}
	svc, err = New(cfg, broker.NewDemoMemory(), nil, nil)
	require.NoError(t, err)
	require.True(t, svc.IsHTTPS())
}

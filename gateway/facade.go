package gateway

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sembus/apigw/broker"
	internalnats "github.com/sembus/apigw/internal/nats"
	"github.com/sembus/apigw/metric"
	"github.com/sembus/apigw/pkg/tlsutil"
)

// Service is the gateway's lifecycle facade: it constructs the resolver,
// route table, asset server and HTTP front from a Config, then owns the
// listening socket and the broker connection's start/stop sequencing.
type Service struct {
	cfg     Config
	server  *server
	client  broker.Connector
	isHTTPS bool
	log     *slog.Logger

	listener net.Listener

	created bool
	started bool
	stopped bool
}

// New constructs a Service from cfg around the supplied broker client
// (tests, demos, or an adapter built by the caller). NewWithNATS is the
// constructor that builds a NATS adapter from cfg.Broker.
func New(cfg Config, client broker.Client, metrics *metric.MetricsRegistry, log *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = metric.NewMetricsRegistry()
	}

	connector, ok := client.(broker.Connector)
	if !ok {
		connector = noopConnector{}
	}

	svc := &Service{
		cfg:     cfg,
		server:  newServer(cfg, client, metrics, log),
		client:  connector,
		isHTTPS: cfg.HTTPS != nil,
		log:     log,
		created: true,
	}
	return svc, nil
}

// NewWithNATS builds a Service whose broker adapter is a NATSAdapter
// constructed from cfg.Broker, for production use.
func NewWithNATS(cfg Config, metrics *metric.MetricsRegistry, log *slog.Logger) (*Service, error) {
	var opts []internalnats.ClientOption
	if t := cfg.Broker.TLS; t != nil {
		opts = append(opts, internalnats.WithTLSConfig(tlsutil.ClientConfig{
			CACerts:            t.CACerts,
			InsecureSkipVerify: t.InsecureSkipVerify,
			MinVersion:         t.MinVersion,
		}))
	}

	conn, err := internalnats.NewClient(cfg.Broker.URL, opts...)
	if err != nil {
		return nil, err
	}
	adapter := broker.NewNATSAdapter(conn)
	return New(cfg, adapter, metrics, log)
}

// Server exposes the underlying *http.Server, for test harnesses that want
// to drive requests directly or inspect the bound address.
func (s *Service) Server() *http.Server {
	return s.server.http
}

// IsHTTPS reports whether this service terminates TLS.
func (s *Service) IsHTTPS() bool {
	return s.isHTTPS
}

// Started binds the listening socket and connects the broker adapter
// concurrently, failing fast if either step fails.
func (s *Service) Started(ctx context.Context) error {
	if s.started {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.client.Connect(gctx)
	})

	g.Go(func() error {
		ln, err := net.Listen("tcp", s.server.http.Addr)
		if err != nil {
			return err
		}
		if s.isHTTPS {
			tlsConfig, err := tlsutil.LoadServerTLSConfig(tlsutil.ServerConfig{
				Cert: s.cfg.HTTPS.Cert,
				Key:  s.cfg.HTTPS.Key,
			})
			if err != nil {
				_ = ln.Close()
				return err
			}
			s.server.http.TLSConfig = tlsConfig
		}
		s.listener = ln
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.started = true

	go func() {
		var err error
		if s.isHTTPS {
			err = s.server.http.ServeTLS(s.listener, "", "")
		} else {
			err = s.server.http.Serve(s.listener)
		}
		if err != nil && err != http.ErrServerClosed {
			s.log.Error("gateway http server stopped unexpectedly", "error", err)
		}
	}()

	return nil
}

// Stopped shuts the HTTP server down (closing the socket and draining
// in-flight requests within gracePeriod) and disconnects the broker adapter;
// the two steps run concurrently, not one after the other.
func (s *Service) Stopped(ctx context.Context, gracePeriod time.Duration) error {
	if s.stopped || !s.started {
		return nil
	}
	s.stopped = true

	drainCtx, cancel := context.WithTimeout(ctx, gracePeriod)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.server.http.Shutdown(drainCtx)
	})
	g.Go(func() error {
		return s.client.Close(gctx)
	})

	return g.Wait()
}

// noopConnector stands in when a supplied broker.Client doesn't also
// implement Connector (e.g. the in-process Memory adapter used in tests),
// so the facade's lifecycle doesn't special-case its connection steps.
type noopConnector struct{}

func (noopConnector) Connect(context.Context) error { return nil }
func (noopConnector) Close(context.Context) error   { return nil }

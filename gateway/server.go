package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sembus/apigw/broker"
	"github.com/sembus/apigw/errors"
	"github.com/sembus/apigw/metric"
)

// server is the HTTP front (C7): one listener, dispatching every request
// through resolve -> parse -> invoke -> materialize, with assets as the
// fallback and /metrics mounted directly on the same mux.
type server struct {
	mux     *http.ServeMux
	http    *http.Server
	resolve *resolver
	assets  *assetServer
	client  broker.Client
	metrics *metric.Metrics
	log     *slog.Logger
	timeout time.Duration
}

func newServer(cfg Config, client broker.Client, metrics *metric.MetricsRegistry, log *slog.Logger) *server {
	if log == nil {
		log = slog.Default()
	}

	s := &server{
		mux:     http.NewServeMux(),
		resolve: newResolver(newRouteTable(cfg)),
		assets:  newAssetServer(cfg.Assets),
		client:  client,
		metrics: metrics.CoreMetrics(),
		log:     log,
		timeout: cfg.RequestTimeout(),
	}

	s.mux.Handle("/metrics", promhttp.HandlerFor(metrics.PrometheusRegistry(), promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/", s.handle)

	s.http = &http.Server{
		Addr:    listenAddr(cfg.IP, cfg.Port),
		Handler: s.mux,
	}

	return s
}

func listenAddr(ip string, port int) string {
	if ip == "" {
		ip = "0.0.0.0"
	}
	return ip + ":" + strconv.Itoa(port)
}

// handle is the single entry point for every non-/metrics request.
func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFor(r)

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rc := &RequestContext{
		Method:    r.Method,
		RawPath:   r.URL.Path,
		Query:     flattenQuery(r.URL.Query()),
		Headers:   r.Header,
		RequestID: requestID,
	}

	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		s.writeError(w, requestID, errors.InternalError(err))
		return
	}
	rc.Body = body

	if err := s.resolve.Resolve(rc); err != nil {
		if err == ErrNoMountMatch {
			if aerr := s.tryAssets(w, r.URL.Path); aerr != nil {
				s.writeError(w, requestID, aerr)
			}
			return
		}
		s.writeError(w, requestID, err)
		s.recordOutcome(rc.ResolvedAction, err, start)
		return
	}

	if err := parseBody(rc, rc.bodyParsers); err != nil {
		s.writeError(w, requestID, err)
		s.recordOutcome(rc.ResolvedAction, err, start)
		return
	}
	rc.MergedParams = mergeParams(rc.Query, rc.ParsedBody)

	invokeStart := time.Now()
	result, err := s.client.Invoke(ctx, rc.ResolvedAction, rc.MergedParams)
	s.metrics.RecordBrokerInvoke(rc.ResolvedAction, time.Since(invokeStart))
	if err != nil {
		if ctx.Err() != nil {
			err = errors.RequestTimeout(rc.ResolvedAction)
		}
		s.writeError(w, requestID, err)
		s.recordOutcome(rc.ResolvedAction, err, start)
		return
	}

	materialize(w, result, requestID, s.log)
	s.recordOutcome(rc.ResolvedAction, nil, start)
}

func (s *server) tryAssets(w http.ResponseWriter, path string) error {
	if s.assets == nil {
		return errors.NotFound("Not found")
	}
	return s.assets.serve(w, path)
}

func (s *server) recordOutcome(action string, err error, start time.Time) {
	status := "200"
	if err != nil {
		status = strconv.Itoa(errors.AsHTTPError(err).Status)
	}
	s.metrics.RecordRequest("", action, status, time.Since(start))
}

// writeError renders err as the response body. Per §4.4/§6, a bare
// NotFoundError (no mount, no asset, missing file) gets a plain-text "Not
// found" body rather than the generic JSON error envelope; every other
// error kind uses the JSON envelope.
func (s *server) writeError(w http.ResponseWriter, requestID string, err error) {
	he := errors.AsHTTPError(err)
	w.Header().Set("Request-Id", requestID)

	if he.Status == http.StatusNotFound && he.Name == "NotFoundError" {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(he.Status)
		_, _ = io.WriteString(w, he.Msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)

	body := map[string]any{"code": he.Status, "name": he.Name, "message": he.Msg}
	if he.Data != nil {
		body["data"] = he.Data
	}
	_ = json.NewEncoder(w).Encode(body)
}

func requestIDFor(r *http.Request) string {
	if id := r.Header.Get("Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}

func flattenQuery(values map[string][]string) map[string]string {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	return flat
}

package gateway

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sembus/apigw/broker"
	"github.com/sembus/apigw/metric"
)

func newTestServer(t *testing.T, cfg Config) *server {
	t.Helper()
	cfg.Port = 8080
	cfg.Broker = BrokerConfig{URL: "nats://127.0.0.1:4222"}
	return newServer(cfg, broker.NewDemoMemory(), metric.NewMetricsRegistry(), nil)
}

// Scenario 1: defaults, GET /test/hello.
func TestGateway_Defaults_Hello(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{{}}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/test/hello", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	require.Equal(t, "Hello Moleculer", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("Request-Id"))
}

// Scenario 2: defaults, unknown action -> 501 ServiceNotFoundError.
func TestGateway_Defaults_UnknownAction(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{{}}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/other/action", nil))

	require.Equal(t, http.StatusNotImplemented, rec.Code)
	require.JSONEq(t,
		`{"code":501,"name":"ServiceNotFoundError","message":"Action 'other.action' is not available!"}`,
		rec.Body.String())
}

// Scenario 3: global path prefix.
func TestGateway_GlobalPathPrefix(t *testing.T) {
	s := newTestServer(t, Config{Path: "/my-api", Routes: []RouteConfig{{}}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/test/hello", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not found", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/my-api/test/hello", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello Moleculer", rec.Body.String())
}

// Scenario 4: whitelist.
func TestGateway_Whitelist(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{
		{Path: "/api", Whitelist: []string{"test.hello", "math.*"}},
	}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/api/test/greeter", nil))
	require.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/api/math.add?a=5&b=8", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "13", rec.Body.String())
}

// Scenario 5: aliases, method-scoped and bare.
func TestGateway_Aliases(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{{
		Path: "/api",
		Aliases: AliasList{
			{Key: "add", Target: "math.add"},
			{Key: "GET hello", Target: "test.hello"},
			{Key: "POST hello", Target: "test.greeter"},
		},
		BodyParsers: &BodyParsersConfig{JSON: BodyParserOption{Enabled: true}},
	}}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/api/hello", nil))
	require.Equal(t, "Hello Moleculer", rec.Body.String())

	rec = httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodPost, "/api/hello?name=Ben", nil))
	require.Equal(t, "Hello Ben", rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/add", bytes.NewBufferString(`{"a":5,"b":8}`))
	req.Header.Set("Content-Type", "application/json")
	s.handle(rec, req)
	require.Equal(t, "13", rec.Body.String())
}

// Scenario 6: JSON parser only, invalid JSON body -> 400.
func TestGateway_InvalidJSONBody(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{{
		BodyParsers: &BodyParsersConfig{JSON: BodyParserOption{Enabled: true}},
	}}})

	req := httptest.NewRequest(http.MethodPost, "/test/greeter", bytes.NewBufferString(`invalid`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handle(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"InvalidRequestBodyError"`)
	require.Contains(t, rec.Body.String(), `"message":"Invalid request body"`)
}

// Scenario 7: assets only, routes nil.
func TestGateway_AssetsOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lorem.txt"), []byte("lorem ipsum"), 0o644))

	s := newTestServer(t, Config{Assets: &AssetsConfig{Folder: dir}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Equal(t, "<h1>hi</h1>", rec.Body.String())

	rec = httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/test/hello", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not found", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

// Scenario 8: multiple mounts, each with its own whitelist.
func TestGateway_MultipleMounts(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{
		{Path: "/api1", Whitelist: []string{"math.*"}},
		{Path: "/api2", Whitelist: []string{"test.*"}},
	}})

	rec := httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/api2/math.add", nil))
	require.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = httptest.NewRecorder()
	s.handle(rec, httptest.NewRequest(http.MethodGet, "/api1/math.add?a=5&b=8", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "13", rec.Body.String())
}

// Merging: body overrides query on key conflict.
func TestGateway_ParamMergeBodyWinsOverQuery(t *testing.T) {
	s := newTestServer(t, Config{Routes: []RouteConfig{{
		BodyParsers: &BodyParsersConfig{JSON: BodyParserOption{Enabled: true}},
	}}})

	req := httptest.NewRequest(http.MethodPost, "/test/greeter?name=A", bytes.NewBufferString(`{"name":"B"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handle(rec, req)

	require.Equal(t, "Hello B", rec.Body.String())
}

func TestGateway_StructuredObjectResponse(t *testing.T) {
	m := broker.NewMemory()
	m.Register("echo.object", func(_ context.Context, params map[string]any) (broker.Result, error) {
		return broker.ObjectResult(params), nil
	})

	s := newServer(Config{
		Port:   8080,
		Broker: BrokerConfig{URL: "nats://127.0.0.1:4222"},
		Routes: []RouteConfig{{BodyParsers: &BodyParsersConfig{JSON: BodyParserOption{Enabled: true}}}},
	}, m, metric.NewMetricsRegistry(), nil)

	req := httptest.NewRequest(http.MethodPost, "/echo/object", bytes.NewBufferString(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.JSONEq(t, `{"a":1}`, rec.Body.String())
}

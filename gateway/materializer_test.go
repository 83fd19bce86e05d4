package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sembus/apigw/broker"
)

type closableReader struct {
	io.Reader
	closed bool
}

func (c *closableReader) Close() error {
	c.closed = true
	return nil
}

func TestMaterialize_Null(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.NullResult(), "req-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-1", rec.Header().Get("Request-Id"))
	require.Empty(t, rec.Body.String())
}

func TestMaterialize_Text(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.TextResult("hi"), "req-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	require.Equal(t, "hi", rec.Body.String())
}

func TestMaterialize_Number(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.NumberResult(13), "req-1", nil)
	require.Equal(t, "13", rec.Body.String())
}

func TestMaterialize_Boolean(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.BooleanResult(true), "req-1", nil)
	require.Equal(t, "true", rec.Body.String())
}

func TestMaterialize_Bytes(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.BytesResult([]byte("raw")), "req-1", nil)

	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, "raw", rec.Body.String())
}

func TestMaterialize_StructuredObject(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.ObjectResult(map[string]any{"a": float64(1)}), "req-1", nil)

	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.JSONEq(t, `{"a":1}`, rec.Body.String())
}

func TestMaterialize_BufferObjectDetectedWithinStructuredObject(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.BufferResult([]byte("abc")), "req-1", nil)

	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, "abc", rec.Body.String())
}

func TestMaterialize_Opaque(t *testing.T) {
	rec := httptest.NewRecorder()
	materialize(rec, broker.OpaqueResult(), "req-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestMaterialize_ByteStream(t *testing.T) {
	rec := httptest.NewRecorder()
	stream := &closableReader{Reader: strings.NewReader("streamed")}

	materialize(rec, broker.StreamResult(stream), "req-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, "streamed", rec.Body.String())
	require.True(t, stream.closed)
}

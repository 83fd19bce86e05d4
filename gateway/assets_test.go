package gateway

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sembus/apigw/errors"
)

func TestAssetServer_NilConfigYieldsNilServer(t *testing.T) {
	require.Nil(t, newAssetServer(nil))
}

func TestAssetServer_ServesIndexAtRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0o644))

	a := newAssetServer(&AssetsConfig{Folder: dir})
	rec := httptest.NewRecorder()
	require.NoError(t, a.serve(rec, "/"))

	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Equal(t, "<h1>home</h1>", rec.Body.String())
}

func TestAssetServer_ServesNestedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "app.css"), []byte("body{}"), 0o644))

	a := newAssetServer(&AssetsConfig{Folder: dir})
	rec := httptest.NewRecorder()
	require.NoError(t, a.serve(rec, "/css/app.css"))

	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	require.Equal(t, "body{}", rec.Body.String())
}

func TestAssetServer_MissingFileIs404(t *testing.T) {
	dir := t.TempDir()
	a := newAssetServer(&AssetsConfig{Folder: dir})

	rec := httptest.NewRecorder()
	err := a.serve(rec, "/missing.txt")
	require.Error(t, err)

	he := errors.AsHTTPError(err)
	require.Equal(t, 404, he.Status)
	require.Equal(t, "NotFoundError", he.Name)
	require.Equal(t, "Not found", he.Msg)
}

func TestAssetServer_PathTraversalBlocked(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("top secret"), 0o644))

	a := newAssetServer(&AssetsConfig{Folder: dir})
	rec := httptest.NewRecorder()
	err := a.serve(rec, "/../secret.txt")
	require.Error(t, err)

	he := errors.AsHTTPError(err)
	require.Equal(t, 404, he.Status)
	require.Equal(t, "NotFoundError", he.Name)
	require.Equal(t, "Not found", he.Msg)
}

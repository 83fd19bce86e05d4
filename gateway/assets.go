package gateway

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sembus/apigw/errors"
)

// assetServer serves static files from a directory as the fall-through for
// requests that matched no API mount, per §4.4.
type assetServer struct {
	folder string
}

func newAssetServer(cfg *AssetsConfig) *assetServer {
	if cfg == nil {
		return nil
	}
	return &assetServer{folder: cfg.Folder}
}

// serve writes the requested file's contents, or a 404 if missing. GET /
// maps to index.html.
func (a *assetServer) serve(w http.ResponseWriter, requestPath string) error {
	rel := strings.TrimPrefix(requestPath, "/")
	if rel == "" {
		rel = "index.html"
	}

	fullPath := filepath.Join(a.folder, filepath.FromSlash(rel))
	if !strings.HasPrefix(fullPath, filepath.Clean(a.folder)) {
		return errors.NotFound("Not found")
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return errors.NotFound("Not found")
	}

	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if strings.HasPrefix(contentType, "text/") && !strings.Contains(contentType, "charset") {
		contentType += "; charset=UTF-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

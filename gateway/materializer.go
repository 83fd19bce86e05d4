package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sembus/apigw/broker"
)

// materialize writes result to w per the response table in §4.2, always
// echoing requestID as the Request-Id header first. log is used only for
// the streaming-error-after-headers-flushed case, which must be logged
// rather than surfaced to the client since the status line is already sent.
func materialize(w http.ResponseWriter, result broker.Result, requestID string, log *slog.Logger) {
	w.Header().Set("Request-Id", requestID)

	if buf, ok := result.AsBuffer(); ok {
		writeBuffer(w, buf)
		return
	}

	switch result.Kind {
	case broker.KindNull:
		w.WriteHeader(http.StatusOK)

	case broker.KindOpaque:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

	case broker.KindText:
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, result.Text)

	case broker.KindNumber:
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, strconv.FormatFloat(result.Number, 'g', -1, 64))

	case broker.KindBoolean:
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, strconv.FormatBool(result.Boolean))

	case broker.KindBytes:
		writeBuffer(w, result.Bytes)

	case broker.KindByteStream:
		writeStream(w, result.Stream, log)

	case broker.KindStructuredObject:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result.Object); err != nil && log != nil {
			log.Error("encode structured response failed", "error", err)
		}

	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

func writeBuffer(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeStream copies a ByteStream result to the client in chunks, flushing
// after each write. Any error encountered after the status line has gone
// out can only be logged: per §4.2/§7, the connection is closed without
// touching the status.
func writeStream(w http.ResponseWriter, r io.ReadCloser, log *slog.Logger) {
	if r == nil {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		return
	}
	defer r.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				if log != nil {
					log.Error("stream write failed after headers flushed", "error", werr)
				}
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF && log != nil {
				log.Error("stream read failed", "error", err)
			}
			return
		}
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
)

// RequestIDHeader carries the per-request id to the backend.
const RequestIDHeader = "X-Request-ID"

// loggingTransport tags each request with an id and logs its outcome.
type loggingTransport struct {
	next http.RoundTripper
}

func newLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	logger.Debug("api request", "id", id, "method", req.Method, "url", req.URL.String())

	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("api request failed", "id", id, "url", req.URL.Path, "duration", elapsed, "error", err)
		return nil, err
	}

	logger.Info("api response", "id", id, "url", req.URL.Path, "status", resp.StatusCode, "duration", elapsed)
	return resp, nil
}

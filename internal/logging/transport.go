package logging

import (
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that logs every outbound call with the
// logger carried by the request context.
//
// Log fields:
//   - method: HTTP method
//   - host: target host
//   - path: request URL path (query omitted, it may carry filters)
//   - status: response status code, 0 on transport failure
//   - duration_ms: round trip time in milliseconds
type Transport struct {
	// Base is the wrapped transport; nil means http.DefaultTransport.
	Base http.RoundTripper
}

// NewClient returns an http.Client with the given timeout whose calls are
// logged through Transport.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: &Transport{}}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	logger := FromContext(req.Context())
	if err != nil {
		logger.Warn("outbound request failed",
			"method", req.Method,
			"host", req.URL.Host,
			"path", req.URL.Path,
			"status", 0,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	logger.Debug("outbound request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}

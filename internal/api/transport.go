package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// loggingTransport logs one line per HTTP exchange.
type loggingTransport struct {
	next http.RoundTripper
	log  *zap.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil) with structured logging.
func NewLoggingTransport(next http.RoundTripper, log *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	// metadata only: the Cookie header and bodies never reach the log
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("dur", time.Since(start)),
	}
	if err != nil {
		t.log.Warn("http", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.log.Info("http", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

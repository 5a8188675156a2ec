package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	redacted    = "REDACTED"
	maxBodyLogs = 512
)

// secretParams are query parameters stripped from logged URLs.
var secretParams = []string{"appid"}

type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
}

func NewRoundTripper(logger *zap.Logger) *RoundTripper {
	return &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	target := safeURL(req.URL)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if cerr := resp.Body.Close(); cerr != nil {
		l.Logger.Warn("failed to close response body",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Error(cerr),
		)
	}
	if err != nil {
		l.Logger.Error("failed to read response body",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	snippet := bodyBytes
	if len(snippet) > maxBodyLogs {
		snippet = snippet[:maxBodyLogs]
	}

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.ByteString("body_snipped", snippet),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

func safeURL(u *url.URL) string {
	clone := *u
	q := clone.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, redacted)
		}
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}

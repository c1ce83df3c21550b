package infra

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"alert_relay/internal/domain"
)

// ForwardResult is the outcome of a successful forwarding attempt.
// Any remote status code counts as success; only transport failures error.
type ForwardResult struct {
	Status  int
	Body    []byte
	Latency time.Duration
}

// Forwarder relays payloads to the configured remote endpoint.
// One best-effort attempt per call, no retry, no backoff.
type Forwarder struct {
	remoteURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewForwarder creates a forwarder bound to the configured remote URL.
func NewForwarder(cfg *Config) *Forwarder {
	return &Forwarder{
		remoteURL: cfg.Remote.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Remote.TimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "forwarder"),
	}
}

// RemoteURL returns the forwarding target.
func (f *Forwarder) RemoteURL() string {
	return f.remoteURL
}

// Forward posts the payload unmodified to the remote endpoint.
// The bytes given are the bytes sent; the relay never re-serializes.
func (f *Forwarder) Forward(ctx context.Context, payload []byte) (*ForwardResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.remoteURL, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewForwardError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewForwardError("post", err)
	}
	defer resp.Body.Close()

	// Drain fully so the connection can be reused. The body only feeds the
	// journal line, so a hostile remote gets capped.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, domain.NewForwardError("read response", err)
	}

	return &ForwardResult{
		Status:  resp.StatusCode,
		Body:    body,
		Latency: time.Since(start),
	}, nil
}

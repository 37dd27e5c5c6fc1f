// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ailink-app/diagnostico/models"
)

// AuthHeader carries the shared webhook key on every outbound request.
const AuthHeader = "X-Webhook-Token"

const (
	userAgent        = "diagnostico-server/1.0"
	maxResponseBytes = 1 << 20 // upstream bodies past 1 MiB are truncated
)

// DefaultTimeout is the outbound deadline when none is configured.
const DefaultTimeout = 12 * time.Second

// ErrTimeout reports that the upstream webhook did not answer in time.
var ErrTimeout = errors.New("webhook request timed out")

// Client posts sanitized submission payloads to the configured webhook.
type Client struct {
	httpClient *http.Client
	url        string
	authKey    string
	timeout    time.Duration
}

// NewClient returns a webhook client for the given target. A zero timeout
// falls back to DefaultTimeout.
func NewClient(url, authKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		authKey:    authKey,
		timeout:    timeout,
	}
}

// Result is an upstream webhook response, classified by shape.
type Result struct {
	StatusCode int
	Raw        string
	// JSON holds the body when it parsed as JSON; nil otherwise.
	JSON json.RawMessage
}

// IsJSON reports whether the upstream body was valid JSON.
func (r *Result) IsJSON() bool { return r.JSON != nil }

// OK reports whether the upstream answered with a 2xx status.
func (r *Result) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Send posts the payload and returns the classified response. A deadline
// miss returns an error wrapping ErrTimeout; any other failure is a
// transport error.
func (c *Client) Send(ctx context.Context, payload models.WebhookPayload) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(AuthHeader, c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	result := &Result{StatusCode: resp.StatusCode, Raw: string(raw)}
	if json.Valid(raw) {
		result.JSON = json.RawMessage(raw)
	}

	slog.Debug("Webhook response",
		"status", resp.StatusCode,
		"size", humanize.Bytes(uint64(len(raw))),
		"json", result.IsJSON(),
	)

	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

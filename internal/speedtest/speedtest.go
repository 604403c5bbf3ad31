// Package speedtest probes a provider endpoint and measures how long it
// takes to answer. It checks reachability and credential acceptance only;
// it speaks no AI-assistant wire protocol.
package speedtest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Checker is an http.Client tuned for short probe requests. Safe for
// concurrent use; batch test workers share one Checker.
type Checker struct {
	client *http.Client
}

func New() *Checker {
	return &Checker{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// Test probes baseURL with the provider's credentials and returns the round
// trip time. The endpoint counts as alive when it answers with anything but
// a server error or an auth rejection; unknown-path 404s are fine, these are
// proxy roots, not real API routes. Cancellation of ctx aborts the request.
func (c *Checker) Test(ctx context.Context, baseURL, apiKey string) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build probe request: %w", err)
	}
	// Anthropic-style key header plus bearer form; proxies accept one or
	// the other.
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, classify(err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, fmt.Errorf("credentials rejected (HTTP %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("server error (HTTP %d)", resp.StatusCode)
	}
	return latency, nil
}

// classify folds raw transport errors into the short reasons the batch
// report shows per item.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timed out: %w", err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("connection refused: %w", err)
	case strings.Contains(msg, "no such host"):
		return fmt.Errorf("dns resolution failed: %w", err)
	default:
		return err
	}
}

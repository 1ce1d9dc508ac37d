// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/gauge-autovoter/models"
)

// maxErrorBody caps how much of a failed response is kept in StatusError
const maxErrorBody = 4 << 10

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// WithLogging wraps a transport with request logging
func WithLogging(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		slog.Debug("request started",
			"method", r.Method,
			"url", r.URL.Redacted(),
		)

		resp, err := next.RoundTrip(r)

		duration := time.Since(start)
		if err != nil {
			slog.Warn("request failed",
				"method", r.Method,
				"url", r.URL.Redacted(),
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return nil, err
		}

		slog.Debug("request completed",
			"method", r.Method,
			"url", r.URL.Redacted(),
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)
		return resp, nil
	})
}

// NewClient returns an HTTP client that logs every request.
// A zero timeout keeps the transport defaults.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: WithLogging(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// StatusError is returned when a server answers with a non-2xx status
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Response   *models.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Response != nil && e.Response.Error != "" {
		if e.Response.Description != "" {
			return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, e.Response.Error, e.Response.Description)
		}
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Response.Error)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// GetJSON fetches url and decodes the JSON body into v
func GetJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return do(client, req, v)
}

// PostJSON sends body as JSON and decodes the JSON response into v.
// v may be nil when the response body is not needed.
func PostJSON(ctx context.Context, client *http.Client, url string, body, v interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, v)
}

func do(client *http.Client, req *http.Request, v interface{}) error {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(req, resp)
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := ParseJSONBody(resp, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Redacted(), err)
	}
	return nil
}

func newStatusError(req *http.Request, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &StatusError{
		Method:     req.Method,
		URL:        req.URL.Redacted(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	var errResp models.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		statusErr.Response = &errResp
	}
	return statusErr
}

// ParseJSONBody parses the response body into the given struct
func ParseJSONBody(resp *http.Response, v interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// Package transport implements the low-level HTTP layer shared by every SDK
// operation: authentication, request correlation, the JSON codec, and the
// retry loop for transient failures. Everything above it works with typed
// requests and results and never touches *http.Request directly.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Transport executes JSON requests against the API.
type Transport struct {
	baseURL *url.URL
	apiKey  string
	timeout time.Duration
	retry   RetryConfig
	client  *http.Client
	logger  *slog.Logger
}

// New validates the configuration and builds a Transport.
func New(cfg Config) (*Transport, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Transport{
		baseURL: base,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		retry:   cfg.Retry,
		client:  client,
		logger:  cfg.Logger,
	}, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (t *Transport) Close() {
	t.client.CloseIdleConnections()
}

// BaseURL returns the configured API root.
func (t *Transport) BaseURL() *url.URL {
	return t.baseURL
}

// APIKey returns the configured credential. Used by the realtime layer to
// authenticate its websocket dial.
func (t *Transport) APIKey() string {
	return t.apiKey
}

// isRetriableStatus checks if the response status warrants another attempt.
// Rate limits and transient server-side conditions are; everything the
// caller can fix (auth, validation, not found) is not.
func isRetriableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// createBackoff creates a configured exponential backoff
func createBackoff(config RetryConfig) backoff.BackOff {
	if config.MaxRetries == 0 {
		return &backoff.StopBackOff{}
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = config.InitialInterval
	expBackoff.MaxInterval = config.MaxInterval
	expBackoff.Multiplier = config.Multiplier
	expBackoff.RandomizationFactor = config.RandomizationFactor
	expBackoff.MaxElapsedTime = 0 // We control retries with WithMaxRetries

	return backoff.WithMaxRetries(expBackoff, config.MaxRetries)
}

// Do sends one JSON request and decodes the response into out. in may be nil
// for bodyless requests and out may be nil when the response body is
// irrelevant. Transient failures are retried with exponential backoff; a
// Retry-After header, when present, stretches the next interval.
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	endpoint := t.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	b := createBackoff(t.retry)

	return backoff.Retry(func() error {
		err := t.attempt(ctx, method, endpoint.String(), body, out)
		if err == nil {
			return nil
		}

		if statusErr, ok := err.(*StatusError); ok {
			if !isRetriableStatus(statusErr.StatusCode) {
				return backoff.Permanent(err)
			}
			if statusErr.RetryAfter > 0 && t.retry.MaxRetries > 0 {
				// Let the server's hint win over the computed interval.
				select {
				case <-time.After(statusErr.RetryAfter):
				case <-ctx.Done():
					return backoff.Permanent(err)
				}
			}
			t.logDebug("retrying request", "method", method, "path", path, "status", statusErr.StatusCode)
			return err
		}

		// Connection-level failures may resolve on a later attempt, unless the
		// caller's context is already done.
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		t.logDebug("retrying request", "method", method, "path", path, "error", err)
		return err
	}, backoff.WithContext(b, ctx))
}

// attempt performs a single request/response cycle.
func (t *Transport) attempt(ctx context.Context, method, endpoint string, body []byte, out any) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.logDebug("sending request", "method", method, "url", endpoint, "request_id", requestID)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp, requestID)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeStatusError turns a non-2xx response into a StatusError. The body is
// expected to carry the standard error envelope; responses that don't are
// reduced to their raw text.
func decodeStatusError(resp *http.Response, requestID string) *StatusError {
	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
		RetryAfter: parseRetryAfter(resp.Header),
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		statusErr.Message = envelope.Error.Message
		statusErr.Details = envelope.Error.Details
		return statusErr
	}

	statusErr.Message = strings.TrimSpace(string(raw))
	if statusErr.Message == "" {
		statusErr.Message = http.StatusText(resp.StatusCode)
	}
	return statusErr
}

// parseRetryAfter reads the Retry-After header, accepting both delta-seconds
// and HTTP-date forms.
func parseRetryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func (t *Transport) logDebug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

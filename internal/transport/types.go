package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config holds everything the transport needs to talk to the API.
type Config struct {
	// BaseURL is the root of the API, including the version prefix.
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Timeout applies per attempt, not across retries.
	Timeout time.Duration

	// Retry controls the backoff loop. MaxRetries of zero disables retries.
	Retry RetryConfig

	// HTTPClient, when set, replaces the default client. The transport still
	// applies its own per-attempt timeout.
	HTTPClient *http.Client

	// Logger receives debug-level request and retry records. Nil means silent.
	Logger *slog.Logger
}

// RetryConfig mirrors the SDK-level retry settings.
type RetryConfig struct {
	MaxRetries          uint64
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

// StatusError is a non-2xx HTTP response decoded into its parts. The SDK
// maps it onto the public error taxonomy; inside the transport it drives the
// retry decision.
type StatusError struct {
	StatusCode int
	Message    string
	Details    map[string]string
	RetryAfter time.Duration
	RequestID  string
}

// Error returns a string representation of the error.
func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("HTTP %d: %s (retry after %v)", e.StatusCode, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// errorEnvelope is the wire shape of an API failure body.
type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

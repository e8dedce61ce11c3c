package tuteliq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuteliq/gosdk/internal/transport"
)

var (
	ErrAPIKeyRequired = errors.New("API key is required")
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrSessionMissing is returned when an operation is executed against a
	// session that was never initialized. This signals a programming error
	// (missing Initialize call), not a runtime condition: it is deterministic
	// and no network request is attempted.
	ErrSessionMissing = &Error{
		Kind:    KindContextMissing,
		Message: "session has not been initialized",
	}
)

// ErrorKind is the closed set of failure categories surfaced by the SDK.
// Matching on the kind is preferred over matching on concrete error types,
// so callers can handle the taxonomy exhaustively.
type ErrorKind string

const (
	// KindUnknown is used when a failure cannot be classified. Errors wrapped
	// from raw values during normalization carry this kind.
	KindUnknown ErrorKind = "unknown"
	// KindContextMissing means an operation ran without an initialized session.
	KindContextMissing ErrorKind = "context_missing"
	// KindAuthentication means the API key is invalid, expired, or missing.
	KindAuthentication ErrorKind = "authentication"
	// KindRateLimit means the account exceeded its request quota. The error may
	// carry a RetryAfter hint; the SDK does not retry these beyond the
	// transport's own policy.
	KindRateLimit ErrorKind = "rate_limit"
	// KindValidation means the request was malformed. Details names the
	// offending field(s).
	KindValidation ErrorKind = "validation"
	// KindNotFound means the requested resource does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindServer means the API failed internally.
	KindServer ErrorKind = "server"
	// KindTimeout means the request exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork ErrorKind = "network"
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	return string(k)
}

// Error is the structured failure value returned by every SDK operation.
// The Kind discriminator is always set, so a single errors.As extraction is
// enough to classify any failure:
//
//	var apiErr *tuteliq.Error
//	if errors.As(err, &apiErr) {
//		switch apiErr.Kind {
//		case tuteliq.KindRateLimit:
//			time.Sleep(apiErr.RetryAfter)
//		case tuteliq.KindValidation:
//			log.Printf("bad input: %v", apiErr.Details)
//		}
//	}
type Error struct {
	// Kind categorizes the failure. Always set.
	Kind ErrorKind
	// Message is the human-readable description from the server, or the text
	// of the underlying failure for transport-level errors.
	Message string
	// StatusCode is the HTTP status that produced this error, or zero when the
	// request never reached the server.
	StatusCode int
	// Details carries per-field validation messages for KindValidation errors.
	Details map[string]string
	// RetryAfter is the server's backoff hint for KindRateLimit errors, when
	// one was provided.
	RetryAfter time.Duration
	// RequestID is the correlation ID the SDK attached to the request. Include
	// it when contacting support about a failure.
	RequestID string

	cause error
}

// Error returns a string representation of the error.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf extracts the ErrorKind from any error returned by the SDK. It
// returns KindUnknown for nil and for errors that did not originate here.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the failure is of a kind the transport layer
// considers transient. Validation, authentication, and not-found failures
// never are.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimit, KindServer, KindTimeout, KindNetwork:
		return true
	}
	return false
}

// kindForStatus maps an HTTP status code onto the taxonomy.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuthentication
	case status == 429:
		return KindRateLimit
	case status == 400 || status == 422:
		return KindValidation
	case status == 404:
		return KindNotFound
	case status == 408 || status == 504:
		return KindTimeout
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}

// normalizeError folds any failure into the taxonomy. Errors that already
// carry an *Error pass through unchanged; transport status errors are mapped
// by HTTP code; context deadline failures become KindTimeout; anything else
// that failed before producing an HTTP response becomes KindNetwork.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}

	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:       kindForStatus(statusErr.StatusCode),
			Message:    statusErr.Message,
			StatusCode: statusErr.StatusCode,
			Details:    statusErr.Details,
			RetryAfter: statusErr.RetryAfter,
			RequestID:  statusErr.RequestID,
			cause:      err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: err.Error(), cause: err}
	}

	return &Error{Kind: KindNetwork, Message: err.Error(), cause: err}
}

// wrapRaw is used by the operation adapter when an execute function surfaces
// something that is not an error from this package. The raw value's string
// form is preserved; the kind stays unknown.
func wrapRaw(err error) *Error {
	return &Error{Kind: KindUnknown, Message: err.Error(), cause: err}
}

package tuteliq

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tuteliq/gosdk/internal/transport"
)

const (
	defaultBaseURL = "https://api.tuteliq.ai/v1"
	defaultTimeout = 30 * time.Second
)

// RetryConfig configures retry behavior for rate-limited and transient requests
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (0 means no retry)
	MaxRetries uint64
	// InitialInterval is the initial backoff interval
	InitialInterval time.Duration
	// MaxInterval is the maximum backoff interval between retries.
	MaxInterval time.Duration
	// Multiplier is the backoff multiplier (e.g., 2.0 for exponential backoff)
	Multiplier float64
	// RandomizationFactor adds jitter to prevent thundering herd
	RandomizationFactor float64
}

// DefaultRetryConfig returns our recommended retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		// A high randomization factor is recommended to prevent thundering herd.
		RandomizationFactor: 0.65,
	}
}

// option is a function that configures the client
type option func(*cfg)

// WithAPIKey sets the API key for the client. If you do not have an API key,
// you can create one from the Tuteliq dashboard.
func WithAPIKey(apiKey string) option {
	return func(c *cfg) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the API base URL. Unless you have been told to use a
// different endpoint, there's no need to set this.
func WithBaseURL(baseURL string) option {
	return func(c *cfg) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the default timeout for requests. If not set, the default
// timeout is 30 seconds. The timeout applies per attempt, not across retries.
func WithTimeout(timeout time.Duration) option {
	return func(c *cfg) {
		c.timeout = timeout
	}
}

// WithRetryConfig sets custom retry configuration for the client
func WithRetryConfig(retryConfig RetryConfig) option {
	return func(c *cfg) {
		c.retryConfig = retryConfig
	}
}

// WithDisableRetry disables automatic retry on rate limits and transient errors
func WithDisableRetry() option {
	return func(c *cfg) {
		c.retryConfig.MaxRetries = 0
	}
}

// WithHTTPClient replaces the underlying *http.Client. Useful for custom
// proxies or TLS settings; the SDK still applies its own per-request timeout.
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *cfg) {
		c.httpClient = httpClient
	}
}

// WithLogger enables debug logging of requests and retries. The SDK is
// silent when no logger is set.
func WithLogger(logger *slog.Logger) option {
	return func(c *cfg) {
		c.logger = logger
	}
}

// cfg holds configuration for the Tuteliq client
type cfg struct {
	// apiKey is your Tuteliq API key
	apiKey string
	// baseURL is the Tuteliq API endpoint (default: "https://api.tuteliq.ai/v1")
	baseURL string
	// timeout is the default timeout for requests
	timeout time.Duration
	// retryConfig configures retry behavior for rate-limited requests
	retryConfig RetryConfig
	// httpClient optionally overrides the transport's HTTP client
	httpClient *http.Client
	// logger optionally receives debug records
	logger *slog.Logger
}

// Client is the main Tuteliq SDK client. It is immutable after construction
// and safe for concurrent use; one Client per application is the intended
// shape (see Session).
type Client struct {
	config *cfg
	api    *transport.Transport
}

// New creates a new Tuteliq client
func New(options ...option) (*Client, error) {
	config := &cfg{
		baseURL:     defaultBaseURL,
		timeout:     defaultTimeout,
		retryConfig: DefaultRetryConfig(),
	}

	for _, option := range options {
		option(config)
	}

	if config.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	api, err := transport.New(transport.Config{
		BaseURL: config.baseURL,
		APIKey:  config.apiKey,
		Timeout: config.timeout,
		Retry: transport.RetryConfig{
			MaxRetries:          config.retryConfig.MaxRetries,
			InitialInterval:     config.retryConfig.InitialInterval,
			MaxInterval:         config.retryConfig.MaxInterval,
			Multiplier:          config.retryConfig.Multiplier,
			RandomizationFactor: config.retryConfig.RandomizationFactor,
		},
		HTTPClient: config.httpClient,
		Logger:     config.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	return &Client{
		config: config,
		api:    api,
	}, nil
}

// call routes one operation through the transport and folds any failure into
// the public error taxonomy.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.api.Do(ctx, method, path, query, in, out); err != nil {
		return normalizeError(err)
	}
	return nil
}

// Close releases resources held by the client. You can do this with defer to
// ensure that idle connections are always cleaned up.
func (c *Client) Close() error {
	if c.api != nil {
		c.api.Close()
	}
	return nil
}

var (
	cleanupHandlers []func()
	cleanupMutex    sync.Mutex
	cleanupOnce     sync.Once
)

// setupCleanupHandler sets up a signal handler for cleanup functions
func setupCleanupHandler() {
	cleanupOnce.Do(func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-c
			cleanupMutex.Lock()
			defer cleanupMutex.Unlock()
			for _, handler := range cleanupHandlers {
				handler()
			}
			os.Exit(0)
		}()
	})
}

// addCleanupHandler adds a cleanup function to be called on exit
func addCleanupHandler(handler func()) {
	cleanupMutex.Lock()
	defer cleanupMutex.Unlock()
	cleanupHandlers = append(cleanupHandlers, handler)
	setupCleanupHandler()
}

// CloseOnExit registers the client for cleanup. This can be useful if you are
// using a long lived instance of the client and want to make sure it is always
// closed before exit.
func (c *Client) CloseOnExit() {
	addCleanupHandler(func() {
		c.Close()
	})
}

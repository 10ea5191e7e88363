// Package httpclient provides the HTTP client used by the triage providers,
// with retry on transient statuses and HTTP/2 enabled on the transport.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// Client is an HTTP client with retry logic and timeout support.
type Client struct {
	httpClient *http.Client
	logger     logx.Logger
	config     Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the request timeout duration.
	// Default: 60 seconds (model responses are slow)
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 2
	MaxRetries int

	// RetryBackoff is the initial backoff duration for retries.
	// Backoff increases exponentially with each retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff duration between retries.
	// Default: 10 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	// Default: "reconflow/1.0"
	UserAgent string

	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         60 * time.Second,
		MaxRetries:      2,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 10 * time.Second,
		UserAgent:       "reconflow/1.0",
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "reconflow/1.0"
	}
	if logger == nil {
		logger = logx.NewNop()
	}
	logger = logger.With("component", "httpclient")

	// El proxy de Burp es solo para las herramientas; aquí manda el entorno del operador
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment

	if !config.DisableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn("failed to configure HTTP/2, falling back to HTTP/1.1", "error", err.Error())
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
		config: config,
	}
}

// Request performs an HTTP request with retry logic.
// The body is kept as bytes so every attempt sends it complete.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s", method)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request",
			"method", method,
			"host", req.URL.Host,
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			// Un contexto cancelado no se reintenta
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("HTTP request failed",
				"method", method,
				"host", req.URL.Host,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = err

			if !c.shouldRetry(attempt, err, nil) {
				return nil, errors.Wrapf(err, "request failed after %d attempts", attempt+1)
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"method", method,
			"host", req.URL.Host,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !isRetryableStatus(resp) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = CheckStatus(resp)

		if !c.shouldRetry(attempt, nil, resp) {
			break
		}

		c.logger.Warn("HTTP request returned retryable status",
			"method", method,
			"host", req.URL.Host,
			"status", resp.StatusCode,
			"attempt", attempt+1,
		)

		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// PostJSON is a convenience method for POST requests with a JSON body.
// Extra headers (API keys) are merged over the JSON ones.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) (*http.Response, error) {
	all := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range headers {
		all[k] = v
	}
	return c.Request(ctx, http.MethodPost, url, body, all)
}

// isRetryableStatus checks if an HTTP status code should trigger a retry.
func isRetryableStatus(resp *http.Response) bool {
	if resp == nil {
		return false
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// shouldRetry determines if a request should be retried based on the attempt number,
// error, and response status code.
func (c *Client) shouldRetry(attempt int, err error, resp *http.Response) bool {
	if attempt >= c.config.MaxRetries {
		return false
	}
	if err != nil {
		return true
	}
	return isRetryableStatus(resp)
}

// backoff implements exponential backoff capped at MaxRetryBackoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus validates the HTTP status code and returns an error if it's not successful.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, http2=%t}",
		c.config.Timeout,
		c.config.MaxRetries,
		!c.config.DisableHTTP2,
	)
}

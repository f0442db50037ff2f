package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fx-signal-bot/internal/logger"
)

// Client wraps http.Client with JSON helpers and bounded retry. Both the
// price vendors and the notification sink go through it so timeout and
// backoff behavior stay uniform.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
}

// ClientOption configures the API client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL sets the base URL prepended to all request paths.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header for all requests.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a new API client with the given options.
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Response represents an HTTP response body with its status.
type Response struct {
	StatusCode int
	Body       []byte
}

// ParseJSON parses the response body as JSON into the given struct.
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*Response, error) {
	fullURL := url
	if c.baseURL != "" {
		fullURL = c.baseURL + url
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug(ctx, "HTTP response",
		"method", method,
		"url", fullURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// GET performs a GET request.
func (c *Client) GET(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// POST performs a POST request with a JSON body.
func (c *Client) POST(ctx context.Context, url string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

// RetryConfig configures bounded retry with exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns the retry policy applied to outbound calls.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     5 * time.Second,
	}
}

// GETWithRetry performs a GET request, retrying transient failures with
// exponential backoff up to the configured attempt budget.
func (c *Client) GETWithRetry(ctx context.Context, url string, config *RetryConfig) (*Response, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	wait := config.InitialWait
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		resp, err := c.GET(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		logger.Warn(ctx, "Request failed, retrying", "attempt", attempt, "error", err, "wait", wait)
		if attempt < config.MaxAttempts {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			wait *= 2
			if wait > config.MaxWait {
				wait = config.MaxWait
			}
		}
	}
	return nil, fmt.Errorf("all %d retry attempts failed: %w", config.MaxAttempts, lastErr)
}

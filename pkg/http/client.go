package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed response is kept as error detail.
const maxErrorBody = 4 << 10

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
}

// Client is a JSON-over-HTTP client with a fixed base URL and a static set
// of headers sent on every request.
type Client struct {
	timeout time.Duration
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: 30 * time.Second,
		headers: map[string]string{"Accept": "application/json"},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// URL joins path onto the client's base URL.
func (c *Client) URL(path string) string {
	if c.baseURL == "" {
		return path
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// SendRequest sends an HTTP request and returns the response. Network level
// failures come back as *TransportError with Status 0.
func (c *Client) SendRequest(ctx context.Context, opts *RequestOptions) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: opts.URL, Err: err}
	}

	return resp, nil
}

// SendAndParse sends a request and decodes the JSON response into dest.
// Non-2xx responses yield *TransportError carrying the response body;
// undecodable bodies yield *PayloadError.
func (c *Client) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	resp, err := c.SendRequest(ctx, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			URL:    opts.URL,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &PayloadError{URL: opts.URL, Err: fmt.Errorf("decode json: %w", err)}
	}

	return nil
}

// Get issues a GET against path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string, dest interface{}) error {
	return c.SendAndParse(ctx, &RequestOptions{
		Method: http.MethodGet,
		URL:    c.URL(path),
	}, dest)
}

// WithTimeout sets client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithBaseURL sets the URL every relative path is resolved against.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithBasicAuth attaches the same basic credential header to every request.
// Empty credentials leave requests unauthenticated.
func WithBasicAuth(user, pass string) ClientOption {
	return func(c *Client) {
		if user == "" && pass == "" {
			return
		}
		token := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
		c.headers["Authorization"] = "Basic " + token
	}
}

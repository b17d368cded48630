package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
)

// Options configures the HTTP client.
type Options struct {
	// Timeout for the whole request, including reading the body.
	// Default: 0 (no timeout)
	Timeout time.Duration

	// Transport overrides the default transport. Mostly useful in tests.
	Transport http.RoundTripper
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Err returns an error describing a non-success status, or nil for 2xx.
func (r *Response) Err() error {
	return checkStatusCode(r.StatusCode)
}

// Client fetches remote files with a single GET.
type Client struct {
	client *http.Client
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:              http.ProxyFromEnvironment,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: true, // We want the raw bytes as served
		}
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

// Get performs one GET request and reads the whole body.
// A non-success status is not an error; use Response.Err to reject it.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}

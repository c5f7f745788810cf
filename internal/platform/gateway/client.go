// Package gateway provides the generic request client used for calls to
// sibling microservices routed through the API gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const userAgent = "gfw-user-api"

// ErrUpstream is the sentinel wrapped by all non-2xx upstream responses.
var ErrUpstream = errors.New("gateway upstream error")

// UpstreamError carries the upstream status for error mapping.
type UpstreamError struct {
	Status int
	URI    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gateway request to %s failed with status %d", e.URI, e.Status)
}

// Unwrap enables errors.Is against ErrUpstream.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// Client performs JSON requests against the gateway with bearer-token
// service authentication.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the gateway base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithToken sets the microservice bearer token passed on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a gateway request client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{httpClient: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs a JSON request against the gateway and returns the raw
// response body. Non-2xx responses yield an *UpstreamError.
func (c *Client) Request(ctx context.Context, method, uri string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+uri, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request to %s: %w", uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{Status: resp.StatusCode, URI: uri}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", uri, err)
	}
	return payload, nil
}

// Package stories proxies user story lookups to the stories microservice.
package stories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gfw-api/gfw-user-api/internal/platform/gateway"
)

// ErrUnavailable wraps any upstream failure. Callers never see upstream
// details, only that the stories service could not answer.
var ErrUnavailable = errors.New("stories service unavailable")

// Service fetches the stories created by a user.
type Service interface {
	GetByUser(ctx context.Context, userID string) (json.RawMessage, error)
}

// Client implements Service over the API gateway.
type Client struct {
	gateway *gateway.Client
}

// NewClient creates a stories client backed by the gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// GetByUser returns the upstream stories payload verbatim.
func (c *Client) GetByUser(ctx context.Context, userID string) (json.RawMessage, error) {
	raw, err := c.gateway.Request(ctx, http.MethodGet, "/v1/story/user/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return raw, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)

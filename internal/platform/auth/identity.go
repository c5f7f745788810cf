// Package auth handles the caller identity attached to each request by the
// upstream API gateway. The gateway has already validated the token; this
// service only parses and trusts the resulting descriptor.
package auth

import (
	"context"
	"encoding/json"
	"errors"
)

// RoleAdmin is the role the gateway assigns to administrators.
const RoleAdmin = "ADMIN"

// MicroserviceID is the distinguished caller id used for service-to-service
// calls routed through the gateway.
const MicroserviceID = "microservice"

// ErrNoUser indicates no identity descriptor was attached to the request.
var ErrNoUser = errors.New("no logged user on request")

// ExtraUserData carries gateway-side account metadata.
type ExtraUserData struct {
	Apps []string `json:"apps"`
}

// LoggedUser is the pre-validated caller descriptor the gateway attaches to
// each request, either as a loggedUser query parameter or a loggedUser body
// field.
type LoggedUser struct {
	ID            string        `json:"id"`
	Role          string        `json:"role"`
	ExtraUserData ExtraUserData `json:"extraUserData"`
}

// Parse decodes a raw loggedUser JSON value.
func Parse(raw string) (*LoggedUser, error) {
	var u LoggedUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// userContextKey is the context key for the caller descriptor.
type userContextKey struct{}

// WithUser stores the caller descriptor in the context.
func WithUser(ctx context.Context, user *LoggedUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the caller descriptor, or nil when the request
// carried none.
func UserFromContext(ctx context.Context) *LoggedUser {
	user, _ := ctx.Value(userContextKey{}).(*LoggedUser)
	return user
}

// Require returns the caller descriptor or ErrNoUser when the request
// carried none. Absence of a descriptor is a 401 at the handler boundary,
// distinct from a present-but-unauthorized descriptor (403).
func Require(ctx context.Context) (*LoggedUser, error) {
	user := UserFromContext(ctx)
	if user == nil || user.ID == "" {
		return nil, ErrNoUser
	}
	return user, nil
}

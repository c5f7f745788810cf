package user

import (
	"encoding/json"
)

// UserBody is the namespaced write shape shared by create and update. The
// loggedUser member is the gateway-attached caller descriptor, consumed
// before routing.
type UserBody struct {
	LoggedUser      json.RawMessage           `json:"loggedUser,omitempty" doc:"Caller descriptor attached by the API gateway"`
	FullName        *string                   `json:"fullName,omitempty"`
	FirstName       *string                   `json:"firstName,omitempty"`
	LastName        *string                   `json:"lastName,omitempty"`
	Email           *string                   `json:"email,omitempty"`
	ApplicationData map[string]map[string]any `json:"applicationData,omitempty" doc:"Per-application profile data, merged one namespace at a time"`
}

// CurrentUserInput for GET /
type CurrentUserInput struct{}

// GetUserInput for GET /{id}
type GetUserInput struct {
	ID string `path:"id" doc:"User identifier"`
}

// CreateUserInput for POST /
type CreateUserInput struct {
	Body UserBody
}

// UpdateUserInput for PATCH /{id}
type UpdateUserInput struct {
	ID   string `path:"id" doc:"User identifier"`
	Body UserBody
}

// DeleteUserInput for DELETE /{id}
type DeleteUserInput struct {
	ID string `path:"id" doc:"User identifier"`
}

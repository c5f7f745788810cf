package user

import (
	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
)

// UserOutput wraps a single user resource document.
type UserOutput struct {
	Body jsonapi.Document[UserAttributes]
}

// UserListOutput wraps a user collection document.
type UserListOutput struct {
	Body jsonapi.ListDocument[UserAttributes]
}

// StoriesOutput relays the stories service payload verbatim.
type StoriesOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

package user

import (
	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
)

// UserOutput wraps a single user resource document.
type UserOutput struct {
	Body jsonapi.Document[UserAttributes]
}

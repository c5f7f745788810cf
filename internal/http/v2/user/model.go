package user

import (
	"github.com/gfw-api/gfw-user-api/internal/platform/timeutil"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

// UserAttributes is the namespaced projection of a user record: core fields
// plus one applicationData object per consuming application. The gfw entry
// is rebuilt from the flat legacy fields on every read.
type UserAttributes struct {
	FullName        string                    `json:"fullName,omitempty"  doc:"Full name"`
	FirstName       string                    `json:"firstName,omitempty" doc:"First name"`
	LastName        string                    `json:"lastName,omitempty"  doc:"Last name"`
	Email           string                    `json:"email,omitempty"     doc:"Email address"`
	CreatedAt       timeutil.Time             `json:"createdAt"           doc:"Creation timestamp"`
	ApplicationData map[string]map[string]any `json:"applicationData"     doc:"Per-application profile data"`
}

func toAttributes(u *usersvc.User) UserAttributes {
	return UserAttributes{
		FullName:        u.FullName,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		CreatedAt:       timeutil.Time{Time: u.CreatedAt},
		ApplicationData: u.ApplicationDataView(),
	}
}

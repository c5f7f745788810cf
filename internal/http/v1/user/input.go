package user

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Flag is a boolean that also accepts its historical string encoding
// ("true"/"false"), which older form-based clients still send.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true", `"true"`:
		*f = true
	case "false", `"false"`, "null", `""`:
		*f = false
	default:
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("invalid boolean value %s", b)
		}
		*f = Flag(v)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Schema implements huma.SchemaProvider so string-encoded booleans pass
// request validation.
func (Flag) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		OneOf: []*huma.Schema{
			{Type: huma.TypeBoolean},
			{Type: huma.TypeString, Enum: []any{"true", "false", ""}},
		},
	}
}

// UserBody is the flat write shape shared by create and update. All fields
// are optional; absent fields are left untouched on update. The loggedUser
// member is the gateway-attached caller descriptor, consumed before routing.
type UserBody struct {
	LoggedUser              json.RawMessage `json:"loggedUser,omitempty" doc:"Caller descriptor attached by the API gateway"`
	FullName                *string         `json:"fullName,omitempty"`
	FirstName               *string         `json:"firstName,omitempty"`
	LastName                *string         `json:"lastName,omitempty"`
	Email                   *string         `json:"email,omitempty"`
	Sector                  *string         `json:"sector,omitempty" doc:"Must normalize to a canonical sector"`
	Subsector               *string         `json:"subsector,omitempty"`
	JobTitle                *string         `json:"jobTitle,omitempty"`
	Company                 *string         `json:"company,omitempty"`
	Country                 *string         `json:"country,omitempty"`
	State                   *string         `json:"state,omitempty"`
	City                    *string         `json:"city,omitempty"`
	AoiCountry              *string         `json:"aoiCountry,omitempty"`
	AoiState                *string         `json:"aoiState,omitempty"`
	AoiCity                 *string         `json:"aoiCity,omitempty"`
	Language                *string         `json:"language,omitempty"`
	Interests               *[]string       `json:"interests,omitempty"`
	HowDoYouUse             *[]string       `json:"howDoYouUse,omitempty"`
	PrimaryResponsibilities *[]string       `json:"primaryResponsibilities,omitempty"`
	Topics                  *[]string       `json:"topics,omitempty"`
	SignUpForTesting        *Flag           `json:"signUpForTesting,omitempty"`
	SignUpToNewsletter      *Flag           `json:"signUpToNewsletter,omitempty"`
	ProfileComplete         *Flag           `json:"profileComplete,omitempty"`
}

// CurrentUserInput for GET / (identity comes from the caller descriptor)
type CurrentUserInput struct{}

// ListUsersInput for GET /obtain/all-users
type ListUsersInput struct {
	Start string `query:"start" doc:"Inclusive creation-date lower bound (ISO date)" example:"2017-12-01"`
	End   string `query:"end"   doc:"Exclusive creation-date upper bound (ISO date)" example:"2018-02-01"`
}

// CreateUserInput for POST /
type CreateUserInput struct {
	Body UserBody
}

// GetUserInput for GET /{id}
type GetUserInput struct {
	ID string `path:"id" doc:"User identifier"`
}

// GetUserByOldIDInput for GET /oldId/{id}
type GetUserByOldIDInput struct {
	ID int64 `path:"id" doc:"Legacy numeric user identifier"`
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

// StoriesInput for GET /stories
type StoriesInput struct{}

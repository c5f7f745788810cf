// Package user holds the user record, its two schema views and the
// reconciliation rules that keep them consistent.
//
// One document is stored per user, keyed by the gateway-assigned identity
// id. The flat legacy fields and the applicationData "gfw" namespace
// describe the same attributes: every write to one side is mirrored to the
// other, while extension keys that only exist under applicationData.gfw pass
// through untouched. Namespaces other than "gfw" are opaque and preserved
// verbatim across unrelated updates.
package user

import (
	"context"
	"errors"
	"time"
)

// Service errors
var (
	ErrNotFound          = errors.New("user not found")
	ErrAlreadyExists     = errors.New("duplicated user")
	ErrUnsupportedSector = errors.New("unsupported sector")
)

// GFWNamespace is the application namespace mirrored into the legacy flat
// fields.
const GFWNamespace = "gfw"

// User is the stored user record. The legacy flat fields carry the "gfw"
// application's attributes; ApplicationData carries per-application
// namespaces, including gfw extension keys that have no flat counterpart.
type User struct {
	ID        string
	FullName  string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time

	// OldID bridges records migrated from the previous system. Never
	// generated for new records.
	OldID *int64

	Sector                  string
	Subsector               string
	JobTitle                string
	Company                 string
	Country                 string
	State                   string
	City                    string
	AoiCountry              string
	AoiState                string
	AoiCity                 string
	Language                string
	Interests               []string
	HowDoYouUse             []string
	PrimaryResponsibilities []string
	Topics                  []string
	SignUpForTesting        bool
	SignUpToNewsletter      bool
	ProfileComplete         bool

	ApplicationData map[string]map[string]any
}

// UpdateParams is a partial update of the flat legacy shape. Nil fields are
// left untouched (patch semantics, not replace semantics).
type UpdateParams struct {
	FullName                *string
	FirstName               *string
	LastName                *string
	Email                   *string
	Sector                  *string
	Subsector               *string
	JobTitle                *string
	Company                 *string
	Country                 *string
	State                   *string
	City                    *string
	AoiCountry              *string
	AoiState                *string
	AoiCity                 *string
	Language                *string
	Interests               *[]string
	HowDoYouUse             *[]string
	PrimaryResponsibilities *[]string
	Topics                  *[]string
	SignUpForTesting        *bool
	SignUpToNewsletter      *bool
	ProfileComplete         *bool
}

// CreateParams builds a new record. ApplicationData, when present, is split
// per the reconciliation rule: gfw keys with a legacy counterpart are lifted
// into the flat fields, the rest stays nested as extension data.
type CreateParams struct {
	UpdateParams
	ApplicationData map[string]map[string]any
}

// ApplicationParams is a v2-shaped partial update: core fields plus
// namespaced application data.
type ApplicationParams struct {
	FullName        *string
	FirstName       *string
	LastName        *string
	Email           *string
	ApplicationData map[string]map[string]any
}

// ListFilter optionally restricts List to a [Start, End) range on CreatedAt.
// Filtering only applies when both bounds are present; a single bound
// disables filtering entirely (long-standing API behavior that clients rely
// on).
type ListFilter struct {
	Start *time.Time
	End   *time.Time
}

// Active reports whether the filter actually restricts anything.
func (f ListFilter) Active() bool {
	return f.Start != nil && f.End != nil
}

// Service defines user record operations.
type Service interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)
	// GetByOldID resolves a record by its legacy numeric id.
	GetByOldID(ctx context.Context, oldID int64) (*User, error)
	// List returns all records, optionally filtered by creation date.
	List(ctx context.Context, filter ListFilter) ([]*User, error)
	// Create stores a new record under id, or ErrAlreadyExists.
	Create(ctx context.Context, id string, params CreateParams) (*User, error)
	// Update merges params into the record for id, creating the record on
	// first touch when it does not exist yet.
	Update(ctx context.Context, id string, params UpdateParams) (*User, error)
	// UpdateApplicationData merges a v2-shaped update into an existing
	// record, or ErrNotFound.
	UpdateApplicationData(ctx context.Context, id string, params ApplicationParams) (*User, error)
	// Delete removes the record for id and returns its last state.
	Delete(ctx context.Context, id string) (*User, error)
}

package user

import (
	"github.com/gfw-api/gfw-user-api/internal/platform/timeutil"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

// UserAttributes is the flat legacy projection of a user record.
type UserAttributes struct {
	FullName                string        `json:"fullName,omitempty"   doc:"Full name"`
	FirstName               string        `json:"firstName,omitempty"  doc:"First name"`
	LastName                string        `json:"lastName,omitempty"   doc:"Last name"`
	Email                   string        `json:"email,omitempty"      doc:"Email address"`
	CreatedAt               timeutil.Time `json:"createdAt"            doc:"Creation timestamp"`
	Sector                  string        `json:"sector,omitempty"     doc:"Canonical sector"`
	Subsector               string        `json:"subsector,omitempty"`
	JobTitle                string        `json:"jobTitle,omitempty"`
	Company                 string        `json:"company,omitempty"`
	Country                 string        `json:"country,omitempty"`
	State                   string        `json:"state,omitempty"`
	City                    string        `json:"city,omitempty"`
	AoiCountry              string        `json:"aoiCountry,omitempty"`
	AoiState                string        `json:"aoiState,omitempty"`
	AoiCity                 string        `json:"aoiCity,omitempty"`
	Language                string        `json:"language,omitempty"`
	Interests               []string      `json:"interests"`
	HowDoYouUse             []string      `json:"howDoYouUse"`
	PrimaryResponsibilities []string      `json:"primaryResponsibilities"`
	Topics                  []string      `json:"topics"`
	SignUpForTesting        bool          `json:"signUpForTesting"`
	SignUpToNewsletter      bool          `json:"signUpToNewsletter"`
	ProfileComplete         bool          `json:"profileComplete"`
}

func toAttributes(u *usersvc.User) UserAttributes {
	return UserAttributes{
		FullName:                u.FullName,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		CreatedAt:               timeutil.Time{Time: u.CreatedAt},
		Sector:                  u.Sector,
		Subsector:               u.Subsector,
		JobTitle:                u.JobTitle,
		Company:                 u.Company,
		Country:                 u.Country,
		State:                   u.State,
		City:                    u.City,
		AoiCountry:              u.AoiCountry,
		AoiState:                u.AoiState,
		AoiCity:                 u.AoiCity,
		Language:                u.Language,
		Interests:               emptyIfNil(u.Interests),
		HowDoYouUse:             emptyIfNil(u.HowDoYouUse),
		PrimaryResponsibilities: emptyIfNil(u.PrimaryResponsibilities),
		Topics:                  emptyIfNil(u.Topics),
		SignUpForTesting:        u.SignUpForTesting,
		SignUpToNewsletter:      u.SignUpToNewsletter,
		ProfileComplete:         u.ProfileComplete,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package user

import (
	"maps"
	"strings"
	"time"

	"github.com/gfw-api/gfw-user-api/internal/sector"
)

// areaOfInterestKey is a gfw extension key with no flat counterpart. When a
// client never stored one explicitly, a value is derived from the areait
// fields at read time.
const areaOfInterestKey = "areaOrRegionOfInterest"

// legacyGFWFields are the applicationData.gfw keys that mirror a flat legacy
// field. On v2 writes these keys are lifted out of the namespace; on v2 reads
// the flat fields are the source of truth for them.
var legacyGFWFields = map[string]struct{}{
	"sector":                  {},
	"subsector":               {},
	"jobTitle":                {},
	"company":                 {},
	"country":                 {},
	"state":                   {},
	"city":                    {},
	"aoiCountry":              {},
	"aoiState":                {},
	"aoiCity":                 {},
	"language":                {},
	"interests":               {},
	"howDoYouUse":             {},
	"primaryResponsibilities": {},
	"topics":                  {},
	"signUpForTesting":        {},
	"signUpToNewsletter":      {},
	"profileComplete":         {},
}

// newUser builds a fresh record with the id pinned to the caller identity.
func newUser(id string, now time.Time, params CreateParams) (*User, error) {
	u := &User{ID: id, CreatedAt: now}
	if err := applyUpdateParams(u, params.UpdateParams); err != nil {
		return nil, err
	}
	if params.ApplicationData != nil {
		if err := applyApplicationData(u, params.ApplicationData); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// applyUpdateParams merges a flat partial update into u. Only non-nil fields
// are touched. Sector values are normalized against the canonical vocabulary
// and reject the whole update when unsupported.
func applyUpdateParams(u *User, p UpdateParams) error {
	if p.Sector != nil {
		canonical, ok := sector.Uniformize(*p.Sector)
		if !ok {
			return ErrUnsupportedSector
		}
		u.Sector = canonical
	}
	setString(&u.FullName, p.FullName)
	setString(&u.FirstName, p.FirstName)
	setString(&u.LastName, p.LastName)
	setString(&u.Email, p.Email)
	setString(&u.Subsector, p.Subsector)
	setString(&u.JobTitle, p.JobTitle)
	setString(&u.Company, p.Company)
	setString(&u.Country, p.Country)
	setString(&u.State, p.State)
	setString(&u.City, p.City)
	setString(&u.AoiCountry, p.AoiCountry)
	setString(&u.AoiState, p.AoiState)
	setString(&u.AoiCity, p.AoiCity)
	if p.Language != nil {
		u.Language = *p.Language
	}
	if p.Interests != nil {
		u.Interests = append([]string(nil), (*p.Interests)...)
	}
	if p.HowDoYouUse != nil {
		u.HowDoYouUse = append([]string(nil), (*p.HowDoYouUse)...)
	}
	if p.PrimaryResponsibilities != nil {
		u.PrimaryResponsibilities = append([]string(nil), (*p.PrimaryResponsibilities)...)
	}
	if p.Topics != nil {
		u.Topics = append([]string(nil), (*p.Topics)...)
	}
	if p.SignUpForTesting != nil {
		u.SignUpForTesting = *p.SignUpForTesting
	}
	if p.SignUpToNewsletter != nil {
		u.SignUpToNewsletter = *p.SignUpToNewsletter
	}
	if p.ProfileComplete != nil {
		u.ProfileComplete = *p.ProfileComplete
	}
	return nil
}

// applyApplicationParams merges a v2-shaped update into u.
func applyApplicationParams(u *User, p ApplicationParams) error {
	setString(&u.FullName, p.FullName)
	setString(&u.FirstName, p.FirstName)
	setString(&u.LastName, p.LastName)
	setString(&u.Email, p.Email)
	if p.ApplicationData != nil {
		return applyApplicationData(u, p.ApplicationData)
	}
	return nil
}

// applyApplicationData merges namespaced data into u, one namespace at a
// time. Namespaces absent from data are preserved unchanged. The gfw
// namespace is split: keys with a legacy counterpart are applied to the flat
// fields, the remainder replaces the stored gfw extension bag, stripped of
// legacy-named keys so nothing is duplicated between the flat mirror and the
// nested copy.
func applyApplicationData(u *User, data map[string]map[string]any) error {
	for ns, nsData := range data {
		if ns != GFWNamespace {
			if u.ApplicationData == nil {
				u.ApplicationData = make(map[string]map[string]any)
			}
			u.ApplicationData[ns] = maps.Clone(nsData)
			continue
		}

		if err := applyGFWFields(u, nsData); err != nil {
			return err
		}

		extension := make(map[string]any, len(nsData))
		for k, v := range nsData {
			if _, legacy := legacyGFWFields[k]; !legacy {
				extension[k] = v
			}
		}
		if u.ApplicationData == nil {
			u.ApplicationData = make(map[string]map[string]any)
		}
		u.ApplicationData[GFWNamespace] = extension
	}
	return nil
}

// applyGFWFields lifts legacy-named keys out of a gfw namespace payload into
// the flat fields.
func applyGFWFields(u *User, gfw map[string]any) error {
	if raw, ok := gfw["sector"]; ok {
		s, _ := raw.(string)
		canonical, ok := sector.Uniformize(s)
		if !ok {
			return ErrUnsupportedSector
		}
		u.Sector = canonical
	}
	assignString(gfw, "subsector", &u.Subsector)
	assignString(gfw, "jobTitle", &u.JobTitle)
	assignString(gfw, "company", &u.Company)
	assignString(gfw, "country", &u.Country)
	assignString(gfw, "state", &u.State)
	assignString(gfw, "city", &u.City)
	assignString(gfw, "aoiCountry", &u.AoiCountry)
	assignString(gfw, "aoiState", &u.AoiState)
	assignString(gfw, "aoiCity", &u.AoiCity)
	assignString(gfw, "language", &u.Language)
	assignStringSlice(gfw, "interests", &u.Interests)
	assignStringSlice(gfw, "howDoYouUse", &u.HowDoYouUse)
	assignStringSlice(gfw, "primaryResponsibilities", &u.PrimaryResponsibilities)
	assignStringSlice(gfw, "topics", &u.Topics)
	assignBool(gfw, "signUpForTesting", &u.SignUpForTesting)
	assignBool(gfw, "signUpToNewsletter", &u.SignUpToNewsletter)
	assignBool(gfw, "profileComplete", &u.ProfileComplete)
	return nil
}

// GFWData projects the gfw namespace as served to v2 clients: the stored
// extension bag overlaid with the flat legacy fields, which remain the
// source of truth for the keys they cover.
func (u *User) GFWData() map[string]any {
	out := make(map[string]any)
	for k, v := range u.ApplicationData[GFWNamespace] {
		out[k] = v
	}

	putString(out, "sector", u.Sector)
	putString(out, "subsector", u.Subsector)
	putString(out, "jobTitle", u.JobTitle)
	putString(out, "company", u.Company)
	putString(out, "country", u.Country)
	putString(out, "state", u.State)
	putString(out, "city", u.City)
	putString(out, "aoiCountry", u.AoiCountry)
	putString(out, "aoiState", u.AoiState)
	putString(out, "aoiCity", u.AoiCity)
	putString(out, "language", u.Language)
	out["interests"] = emptyIfNil(u.Interests)
	out["howDoYouUse"] = emptyIfNil(u.HowDoYouUse)
	out["primaryResponsibilities"] = emptyIfNil(u.PrimaryResponsibilities)
	out["topics"] = emptyIfNil(u.Topics)
	out["signUpForTesting"] = u.SignUpForTesting
	out["signUpToNewsletter"] = u.SignUpToNewsletter
	out["profileComplete"] = u.ProfileComplete

	if _, ok := out[areaOfInterestKey]; !ok {
		if derived := u.AreaOrRegionOfInterest(); derived != "" {
			out[areaOfInterestKey] = derived
		}
	}
	return out
}

// ApplicationDataView projects the full applicationData as served to v2
// clients: stored namespaces verbatim, with the gfw entry rebuilt from the
// flat fields plus extension data.
func (u *User) ApplicationDataView() map[string]map[string]any {
	out := make(map[string]map[string]any, len(u.ApplicationData)+1)
	for ns, nsData := range u.ApplicationData {
		if ns != GFWNamespace {
			out[ns] = maps.Clone(nsData)
		}
	}
	out[GFWNamespace] = u.GFWData()
	return out
}

// AreaOrRegionOfInterest returns the stored gfw extension value when
// present, otherwise a value derived from the area-of-interest city and
// state.
func (u *User) AreaOrRegionOfInterest() string {
	if raw, ok := u.ApplicationData[GFWNamespace][areaOfInterestKey]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return strings.TrimSpace(u.AoiCity + " " + u.AoiState)
}

// Clone returns a copy safe to mutate independently of u.
func (u *User) Clone() *User {
	c := *u
	c.Interests = append([]string(nil), u.Interests...)
	c.HowDoYouUse = append([]string(nil), u.HowDoYouUse...)
	c.PrimaryResponsibilities = append([]string(nil), u.PrimaryResponsibilities...)
	c.Topics = append([]string(nil), u.Topics...)
	if u.OldID != nil {
		oldID := *u.OldID
		c.OldID = &oldID
	}
	if u.ApplicationData != nil {
		c.ApplicationData = make(map[string]map[string]any, len(u.ApplicationData))
		for ns, nsData := range u.ApplicationData {
			c.ApplicationData[ns] = maps.Clone(nsData)
		}
	}
	return &c
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func putString(dst map[string]any, key, value string) {
	if value != "" {
		dst[key] = value
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func assignString(src map[string]any, key string, dst *string) {
	if raw, ok := src[key]; ok {
		if s, ok := raw.(string); ok {
			*dst = strings.TrimSpace(s)
		}
	}
}

func assignBool(src map[string]any, key string, dst *bool) {
	raw, ok := src[key]
	if !ok {
		return
	}
	switch v := raw.(type) {
	case bool:
		*dst = v
	case string:
		// Historical clients send booleans as strings.
		*dst = v == "true"
	}
}

func assignStringSlice(src map[string]any, key string, dst *[]string) {
	raw, ok := src[key]
	if !ok {
		return
	}
	switch v := raw.(type) {
	case []string:
		*dst = append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*dst = out
	}
}

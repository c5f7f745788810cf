package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestNewUserLiftsGFWNamespace(t *testing.T) {
	now := time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)
	u, err := newUser("abc", now, CreateParams{
		UpdateParams: UpdateParams{
			FullName: strPtr("Test User"),
			Email:    strPtr("test@example.com"),
		},
		ApplicationData: map[string]map[string]any{
			"gfw": {
				"sector":           "Government",
				"jobTitle":         "Analyst",
				"interests":        []any{"fires", "forests"},
				"signUpForTesting": "true",
				"customField":      "custom value",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Test User", u.FullName)
	assert.Equal(t, "Government", u.Sector)
	assert.Equal(t, "Analyst", u.JobTitle)
	assert.Equal(t, []string{"fires", "forests"}, u.Interests)
	assert.True(t, u.SignUpForTesting)

	// Legacy-named keys never stay in the stored namespace.
	stored := u.ApplicationData["gfw"]
	assert.Equal(t, map[string]any{"customField": "custom value"}, stored)
}

func TestApplyUpdateParamsMirrorsIntoGFWData(t *testing.T) {
	u := &User{ID: "abc"}
	err := applyUpdateParams(u, UpdateParams{
		Sector:    strPtr("Governo"),
		Company:   strPtr("  Acme  "),
		Interests: &[]string{"water"},
	})
	require.NoError(t, err)

	gfw := u.GFWData()
	assert.Equal(t, "Government", gfw["sector"])
	assert.Equal(t, "Acme", gfw["company"])
	assert.Equal(t, []string{"water"}, gfw["interests"])
}

func TestApplyUpdateParamsUnsupportedSector(t *testing.T) {
	u := &User{ID: "abc", Sector: "Government"}
	err := applyUpdateParams(u, UpdateParams{Sector: strPtr("Wizardry")})
	assert.ErrorIs(t, err, ErrUnsupportedSector)
	assert.Equal(t, "Government", u.Sector)
}

func TestExtensionSurvivesFlatUpdate(t *testing.T) {
	u, err := newUser("abc", time.Now(), CreateParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"customField": "keep me", "city": "Helsinki"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, applyUpdateParams(u, UpdateParams{City: strPtr("Espoo")}))

	gfw := u.GFWData()
	assert.Equal(t, "keep me", gfw["customField"])
	assert.Equal(t, "Espoo", gfw["city"])
}

func TestGFWMentionReplacesExtensionBag(t *testing.T) {
	u, err := newUser("abc", time.Now(), CreateParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"oldExtension": "stale"},
		},
	})
	require.NoError(t, err)

	err = applyApplicationParams(u, ApplicationParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"newExtension": "fresh", "company": "Acme"},
		},
	})
	require.NoError(t, err)

	stored := u.ApplicationData["gfw"]
	assert.Equal(t, map[string]any{"newExtension": "fresh"}, stored)
	assert.Equal(t, "Acme", u.Company)
}

func TestOtherNamespacesPreservedAndReplaced(t *testing.T) {
	u, err := newUser("abc", time.Now(), CreateParams{
		ApplicationData: map[string]map[string]any{
			"rw":    {"theme": "dark"},
			"other": {"keep": true},
		},
	})
	require.NoError(t, err)

	// A gfw-only update must not touch the other namespaces.
	err = applyApplicationParams(u, ApplicationParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"city": "Oslo"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"theme": "dark"}, u.ApplicationData["rw"])
	assert.Equal(t, map[string]any{"keep": true}, u.ApplicationData["other"])

	// A mentioned namespace is replaced wholesale, not merged.
	err = applyApplicationParams(u, ApplicationParams{
		ApplicationData: map[string]map[string]any{
			"rw": {"language": "en"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"language": "en"}, u.ApplicationData["rw"])
	assert.Equal(t, map[string]any{"keep": true}, u.ApplicationData["other"])
}

func TestGFWDataDefaults(t *testing.T) {
	u := &User{ID: "abc", SignUpToNewsletter: true}
	gfw := u.GFWData()

	// Empty strings stay absent, slices and booleans always present.
	assert.NotContains(t, gfw, "sector")
	assert.NotContains(t, gfw, "language")
	assert.Equal(t, []string{}, gfw["interests"])
	assert.Equal(t, []string{}, gfw["topics"])
	assert.Equal(t, false, gfw["signUpForTesting"])
	assert.Equal(t, true, gfw["signUpToNewsletter"])
	assert.Equal(t, false, gfw["profileComplete"])
	assert.NotContains(t, gfw, "areaOrRegionOfInterest")
}

func TestAreaOrRegionOfInterestDerivation(t *testing.T) {
	u := &User{ID: "abc", AoiCity: "Lagos", AoiState: "Lagos State"}
	assert.Equal(t, "Lagos Lagos State", u.AreaOrRegionOfInterest())
	assert.Equal(t, "Lagos Lagos State", u.GFWData()["areaOrRegionOfInterest"])

	// A stored extension value wins over the derived one.
	u.ApplicationData = map[string]map[string]any{
		"gfw": {"areaOrRegionOfInterest": "Congo Basin"},
	}
	assert.Equal(t, "Congo Basin", u.AreaOrRegionOfInterest())

	onlyState := &User{ID: "abc", AoiState: "Uusimaa"}
	assert.Equal(t, "Uusimaa", onlyState.AreaOrRegionOfInterest())
}

func TestApplicationDataView(t *testing.T) {
	u, err := newUser("abc", time.Now(), CreateParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"city": "Quito", "favouriteDataset": "tree-cover-loss"},
			"rw":  {"theme": "dark"},
		},
	})
	require.NoError(t, err)

	view := u.ApplicationDataView()
	assert.Equal(t, map[string]any{"theme": "dark"}, view["rw"])
	assert.Equal(t, "Quito", view["gfw"]["city"])
	assert.Equal(t, "tree-cover-loss", view["gfw"]["favouriteDataset"])
}

func TestCloneIsIndependent(t *testing.T) {
	oldID := int64(42)
	u := &User{
		ID:        "abc",
		OldID:     &oldID,
		Interests: []string{"fires"},
		ApplicationData: map[string]map[string]any{
			"gfw": {"customField": "v"},
		},
	}
	c := u.Clone()
	c.Interests[0] = "floods"
	c.ApplicationData["gfw"]["customField"] = "changed"
	*c.OldID = 7

	assert.Equal(t, []string{"fires"}, u.Interests)
	assert.Equal(t, "v", u.ApplicationData["gfw"]["customField"])
	assert.Equal(t, int64(42), *u.OldID)
}

func TestApplicationParamsCoreFields(t *testing.T) {
	u := &User{ID: "abc", FullName: "Before"}
	err := applyApplicationParams(u, ApplicationParams{
		FullName: strPtr("After"),
		Email:    strPtr(" user@example.com "),
	})
	require.NoError(t, err)
	assert.Equal(t, "After", u.FullName)
	assert.Equal(t, "user@example.com", u.Email)
}

func TestBoolFieldsFromFlatUpdate(t *testing.T) {
	u := &User{ID: "abc"}
	require.NoError(t, applyUpdateParams(u, UpdateParams{
		ProfileComplete:  boolPtr(true),
		SignUpForTesting: boolPtr(true),
	}))
	assert.True(t, u.ProfileComplete)
	assert.True(t, u.SignUpForTesting)
}

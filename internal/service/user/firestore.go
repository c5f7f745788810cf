package user

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/gfw-api/gfw-user-api/internal/platform/logging"
)

const usersCollection = "users"

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupportedSector):
		return "unsupported_sector"
	default:
		return "internal_error"
	}
}

// firestoreUser maps to Firestore document structure. Field names match the
// documents written by the previous system so existing records keep working.
type firestoreUser struct {
	FullName                string                    `firestore:"fullName,omitempty"`
	FirstName               string                    `firestore:"firstName,omitempty"`
	LastName                string                    `firestore:"lastName,omitempty"`
	Email                   string                    `firestore:"email,omitempty"`
	CreatedAt               time.Time                 `firestore:"createdAt"`
	OldID                   *int64                    `firestore:"oldId,omitempty"`
	Sector                  string                    `firestore:"sector,omitempty"`
	Subsector               string                    `firestore:"subsector,omitempty"`
	JobTitle                string                    `firestore:"jobTitle,omitempty"`
	Company                 string                    `firestore:"company,omitempty"`
	Country                 string                    `firestore:"country,omitempty"`
	State                   string                    `firestore:"state,omitempty"`
	City                    string                    `firestore:"city,omitempty"`
	AoiCountry              string                    `firestore:"aoiCountry,omitempty"`
	AoiState                string                    `firestore:"aoiState,omitempty"`
	AoiCity                 string                    `firestore:"aoiCity,omitempty"`
	Language                string                    `firestore:"language,omitempty"`
	Interests               []string                  `firestore:"interests,omitempty"`
	HowDoYouUse             []string                  `firestore:"howDoYouUse,omitempty"`
	PrimaryResponsibilities []string                  `firestore:"primaryResponsibilities,omitempty"`
	Topics                  []string                  `firestore:"topics,omitempty"`
	SignUpForTesting        bool                      `firestore:"signUpForTesting"`
	SignUpToNewsletter      bool                      `firestore:"signUpToNewsletter"`
	ProfileComplete         bool                      `firestore:"profileComplete"`
	ApplicationData         map[string]map[string]any `firestore:"applicationData,omitempty"`
}

func toDocument(u *User) firestoreUser {
	return firestoreUser{
		FullName:                u.FullName,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		CreatedAt:               u.CreatedAt,
		OldID:                   u.OldID,
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
		Interests:               u.Interests,
		HowDoYouUse:             u.HowDoYouUse,
		PrimaryResponsibilities: u.PrimaryResponsibilities,
		Topics:                  u.Topics,
		SignUpForTesting:        u.SignUpForTesting,
		SignUpToNewsletter:      u.SignUpToNewsletter,
		ProfileComplete:         u.ProfileComplete,
		ApplicationData:         u.ApplicationData,
	}
}

func (fu firestoreUser) toUser(id string) *User {
	return &User{
		ID:                      id,
		FullName:                fu.FullName,
		FirstName:               fu.FirstName,
		LastName:                fu.LastName,
		Email:                   fu.Email,
		CreatedAt:               fu.CreatedAt,
		OldID:                   fu.OldID,
		Sector:                  fu.Sector,
		Subsector:               fu.Subsector,
		JobTitle:                fu.JobTitle,
		Company:                 fu.Company,
		Country:                 fu.Country,
		State:                   fu.State,
		City:                    fu.City,
		AoiCountry:              fu.AoiCountry,
		AoiState:                fu.AoiState,
		AoiCity:                 fu.AoiCity,
		Language:                fu.Language,
		Interests:               fu.Interests,
		HowDoYouUse:             fu.HowDoYouUse,
		PrimaryResponsibilities: fu.PrimaryResponsibilities,
		Topics:                  fu.Topics,
		SignUpForTesting:        fu.SignUpForTesting,
		SignUpToNewsletter:      fu.SignUpToNewsletter,
		ProfileComplete:         fu.ProfileComplete,
		ApplicationData:         fu.ApplicationData,
	}
}

// FirestoreStore implements Service using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Get retrieves a user record by ID.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*User, error) {
	docRef := s.client.Collection(usersCollection).Doc(id)
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fu firestoreUser
	if err := doc.DataTo(&fu); err != nil {
		return nil, err
	}
	return fu.toUser(id), nil
}

// GetByOldID resolves a record migrated from the previous system by its
// numeric id.
func (s *FirestoreStore) GetByOldID(ctx context.Context, oldID int64) (*User, error) {
	iter := s.client.Collection(usersCollection).
		Where("oldId", "==", oldID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fu firestoreUser
	if err := doc.DataTo(&fu); err != nil {
		return nil, err
	}
	return fu.toUser(doc.Ref.ID), nil
}

// List returns all user records, restricted to a creation-date range when
// the filter carries both bounds.
func (s *FirestoreStore) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	query := s.client.Collection(usersCollection).Query
	if filter.Active() {
		query = query.
			Where("createdAt", ">=", *filter.Start).
			Where("createdAt", "<", *filter.End)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	users := make([]*User, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var fu firestoreUser
		if err := doc.DataTo(&fu); err != nil {
			return nil, err
		}
		users = append(users, fu.toUser(doc.Ref.ID))
	}
	return users, nil
}

// Create creates a new user record using a transaction to prevent
// duplicates.
func (s *FirestoreStore) Create(ctx context.Context, id string, params CreateParams) (*User, error) {
	u, err := newUser(id, time.Now().UTC(), params)
	if err != nil {
		return nil, err
	}

	docRef := s.client.Collection(usersCollection).Doc(id)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err == nil && doc.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		return tx.Set(docRef, toDocument(u))
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "create", id, "user", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "create", id, "user", id, "success", nil)

	return u, nil
}

// Update merges a flat partial update into the record for id, creating it
// when it does not exist yet.
func (s *FirestoreStore) Update(ctx context.Context, id string, params UpdateParams) (*User, error) {
	docRef := s.client.Collection(usersCollection).Doc(id)

	var result *User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		u := &User{ID: id, CreatedAt: time.Now().UTC()}

		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			var fu firestoreUser
			if err := doc.DataTo(&fu); err != nil {
				return err
			}
			u = fu.toUser(id)
		case status.Code(err) != codes.NotFound:
			return err
		}

		if err := applyUpdateParams(u, params); err != nil {
			return err
		}
		if err := tx.Set(docRef, toDocument(u)); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "update", id, "user", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "update", id, "user", id, "success", nil)

	return result, nil
}

// UpdateApplicationData merges namespaced application data into an existing
// record.
func (s *FirestoreStore) UpdateApplicationData(ctx context.Context, id string, params ApplicationParams) (*User, error) {
	docRef := s.client.Collection(usersCollection).Doc(id)

	var result *User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fu firestoreUser
		if err := doc.DataTo(&fu); err != nil {
			return err
		}
		u := fu.toUser(id)

		if err := applyApplicationParams(u, params); err != nil {
			return err
		}
		if err := tx.Set(docRef, toDocument(u)); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "update", id, "user", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "update", id, "user", id, "success", nil)

	return result, nil
}

// Delete removes the record for id using a transaction and returns its last
// state.
func (s *FirestoreStore) Delete(ctx context.Context, id string) (*User, error) {
	docRef := s.client.Collection(usersCollection).Doc(id)

	var result *User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fu firestoreUser
		if err := doc.DataTo(&fu); err != nil {
			return err
		}
		result = fu.toUser(id)

		return tx.Delete(docRef)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "delete", id, "user", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "delete", id, "user", id, "success", nil)

	return result, nil
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)

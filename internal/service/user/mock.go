package user

import (
	"context"
	"sync"
	"time"
)

// MockUserService implements Service in memory for unit tests. It shares the
// reconciliation rules with the Firestore store, so the v1/v2 mirroring
// behavior under test is the real one.
type MockUserService struct {
	mu    sync.RWMutex
	users map[string]*User

	// Now is called for creation timestamps so tests can pin them.
	Now func() time.Time
}

// NewMockUserService creates a new mock service.
func NewMockUserService() *MockUserService {
	return &MockUserService{
		users: make(map[string]*User),
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MockUserService) Get(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *MockUserService) GetByOldID(ctx context.Context, oldID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.OldID != nil && *u.OldID == oldID {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockUserService) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		if filter.Active() {
			if u.CreatedAt.Before(*filter.Start) || !u.CreatedAt.Before(*filter.End) {
				continue
			}
		}
		users = append(users, u.Clone())
	}
	return users, nil
}

func (m *MockUserService) Create(ctx context.Context, id string, params CreateParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; exists {
		return nil, ErrAlreadyExists
	}

	u, err := newUser(id, m.Now(), params)
	if err != nil {
		return nil, err
	}
	m.users[id] = u
	return u.Clone(), nil
}

func (m *MockUserService) Update(ctx context.Context, id string, params UpdateParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[id]
	if !exists {
		u = &User{ID: id, CreatedAt: m.Now()}
	} else {
		u = u.Clone()
	}

	if err := applyUpdateParams(u, params); err != nil {
		return nil, err
	}
	m.users[id] = u
	return u.Clone(), nil
}

func (m *MockUserService) UpdateApplicationData(ctx context.Context, id string, params ApplicationParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	u = u.Clone()

	if err := applyApplicationParams(u, params); err != nil {
		return nil, err
	}
	m.users[id] = u
	return u.Clone(), nil
}

func (m *MockUserService) Delete(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	delete(m.users, id)
	return u, nil
}

// Seed inserts a prebuilt record, overwriting any existing one. Test helper.
func (m *MockUserService) Seed(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u.Clone()
}

// Compile-time interface check
var _ Service = (*MockUserService)(nil)

package stories

import (
	"context"
	"encoding/json"
)

// MockStoriesService implements Service for unit tests.
type MockStoriesService struct {
	Response json.RawMessage
	Err      error

	// LastUserID records the most recent lookup.
	LastUserID string
}

// NewMockStoriesService creates a mock that answers with response.
func NewMockStoriesService(response json.RawMessage) *MockStoriesService {
	return &MockStoriesService{Response: response}
}

func (m *MockStoriesService) GetByUser(ctx context.Context, userID string) (json.RawMessage, error) {
	m.LastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// Compile-time interface check
var _ Service = (*MockStoriesService)(nil)

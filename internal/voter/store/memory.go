// Package store provides voter profile persistence. Profiles are written by
// the surrounding application; the voting core reads them for eligibility.
package store

import (
	"context"
	"sync"

	"univote/internal/voter/models"
	id "univote/pkg/domain"
)

// InMemoryStore keeps voter profiles in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]models.VoterProfile
}

// NewInMemoryStore creates an empty in-memory profile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.UserID]models.VoterProfile)}
}

// GetProfile returns the profile or nil when absent.
func (s *InMemoryStore) GetProfile(_ context.Context, userID id.UserID) (*models.VoterProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[userID]
	if !exists {
		return nil, nil
	}
	return &profile, nil
}

// PutProfile upserts a profile. Used by seeds and tests; production profiles
// arrive through the surrounding application's own write path.
func (s *InMemoryStore) PutProfile(_ context.Context, profile models.VoterProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

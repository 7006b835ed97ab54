// Package store provides election and candidate persistence. The memory
// implementation backs development and unit tests; PostgresStore is the
// production twin.
package store

import (
	"context"
	"sync"

	"univote/internal/election/models"
	id "univote/pkg/domain"
)

// InMemoryStore keeps elections and candidates in process memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	elections  map[id.ElectionID]*models.Election
	candidates map[id.ElectionID][]*models.Candidate
}

// NewInMemoryStore creates an empty in-memory election store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		elections:  make(map[id.ElectionID]*models.Election),
		candidates: make(map[id.ElectionID][]*models.Candidate),
	}
}

// GetElection returns the election or nil when absent.
func (s *InMemoryStore) GetElection(_ context.Context, electionID id.ElectionID) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	election, exists := s.elections[electionID]
	if !exists {
		return nil, nil
	}
	return cloneElection(election), nil
}

// ListElections returns all elections in insertion-independent order.
func (s *InMemoryStore) ListElections(_ context.Context) ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elections := make([]*models.Election, 0, len(s.elections))
	for _, election := range s.elections {
		elections = append(elections, cloneElection(election))
	}
	return elections, nil
}

// CreateElection stores a new election.
func (s *InMemoryStore) CreateElection(_ context.Context, election *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[election.ID] = cloneElection(election)
	return nil
}

// UpdateStatus persists the derived display status.
func (s *InMemoryStore) UpdateStatus(_ context.Context, electionID id.ElectionID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if election, exists := s.elections[electionID]; exists {
		election.Status = status
	}
	return nil
}

// ListCandidates returns the election's candidates in insertion order.
// Insertion order is the stable secondary sort for equal tally counts.
func (s *InMemoryStore) ListCandidates(_ context.Context, electionID id.ElectionID) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.candidates[electionID]
	out := make([]*models.Candidate, len(candidates))
	for i, candidate := range candidates {
		clone := *candidate
		out[i] = &clone
	}
	return out, nil
}

// CreateCandidate appends a candidate to its election.
func (s *InMemoryStore) CreateCandidate(_ context.Context, candidate *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *candidate
	s.candidates[candidate.ElectionID] = append(s.candidates[candidate.ElectionID], &clone)
	return nil
}

func cloneElection(election *models.Election) *models.Election {
	clone := *election
	clone.Colleges = append([]string(nil), election.Colleges...)
	clone.EligibleYearLevels = append([]string(nil), election.EligibleYearLevels...)
	clone.Positions = append([]string(nil), election.Positions...)
	if election.CandidacyStartDate != nil {
		start := *election.CandidacyStartDate
		clone.CandidacyStartDate = &start
	}
	if election.CandidacyEndDate != nil {
		end := *election.CandidacyEndDate
		clone.CandidacyEndDate = &end
	}
	return &clone
}

// Package store persists the append-only vote ledger. Both implementations
// enforce the same uniqueness rule: at most one entry per
// (election, voter, position).
package store

import (
	"context"
	"sync"

	"univote/internal/ballot/models"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
)

type entryKey struct {
	voterID  id.UserID
	position string
}

// InMemoryStore keeps ledger entries in process memory. All writes for one
// ballot happen inside a single critical section, so a partially written
// ballot is never observable.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.ElectionID]map[entryKey]*models.Entry
	// order preserves insertion order per election for deterministic listing.
	order map[id.ElectionID][]entryKey
}

// NewInMemoryStore creates an empty in-memory ledger.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[id.ElectionID]map[entryKey]*models.Entry),
		order:   make(map[id.ElectionID][]entryKey),
	}
}

// InsertEntries writes all entries of one ballot atomically. Uniqueness is
// re-checked under the write lock; a concurrent duplicate loses with a
// conflict error and writes nothing.
func (s *InMemoryStore) InsertEntries(_ context.Context, entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	electionID := entries[0].ElectionID
	byKey := s.entries[electionID]
	for _, entry := range entries {
		key := entryKey{voterID: entry.VoterID, position: entry.Position}
		if _, exists := byKey[key]; exists {
			return dErrors.New(dErrors.CodeConflict, "ballot entry already recorded")
		}
	}

	if byKey == nil {
		byKey = make(map[entryKey]*models.Entry)
		s.entries[electionID] = byKey
	}
	for _, entry := range entries {
		key := entryKey{voterID: entry.VoterID, position: entry.Position}
		cloned := *entry
		byKey[key] = &cloned
		s.order[electionID] = append(s.order[electionID], key)
	}
	return nil
}

// HasVoted reports whether the voter has any ledger entry for the election.
func (s *InMemoryStore) HasVoted(_ context.Context, electionID id.ElectionID, voterID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key := range s.entries[electionID] {
		if key.voterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

// ListByElection returns all entries for an election in insertion order.
func (s *InMemoryStore) ListByElection(_ context.Context, electionID id.ElectionID) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.order[electionID]
	byKey := s.entries[electionID]
	entries := make([]*models.Entry, 0, len(keys))
	for _, key := range keys {
		entry, exists := byKey[key]
		if !exists {
			continue
		}
		cloned := *entry
		entries = append(entries, &cloned)
	}
	return entries, nil
}

// CountDistinctVoters returns the number of voters with at least one entry.
func (s *InMemoryStore) CountDistinctVoters(_ context.Context, electionID id.ElectionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[id.UserID]struct{})
	for key := range s.entries[electionID] {
		seen[key.voterID] = struct{}{}
	}
	return len(seen), nil
}

// DeleteVoterEntries removes all of one voter's entries for an election. The
// ballot coordinator calls it to compensate a partially failed write.
func (s *InMemoryStore) DeleteVoterEntries(_ context.Context, electionID id.ElectionID, voterID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey := s.entries[electionID]
	for key := range byKey {
		if key.voterID == voterID {
			delete(byKey, key)
		}
	}
	keys := s.order[electionID]
	kept := keys[:0]
	for _, key := range keys {
		if key.voterID != voterID {
			kept = append(kept, key)
		}
	}
	s.order[electionID] = kept
	return nil
}

// DeleteElectionEntries removes every entry for an election in one step and
// returns how many were removed.
func (s *InMemoryStore) DeleteElectionEntries(_ context.Context, electionID id.ElectionID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := int64(len(s.entries[electionID]))
	delete(s.entries, electionID)
	delete(s.order, electionID)
	return deleted, nil
}

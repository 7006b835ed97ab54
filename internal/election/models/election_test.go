package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"before start", start.Add(-time.Minute), StatusUpcoming},
		{"exactly at start", start, StatusActive},
		{"mid window", start.Add(24 * time.Hour), StatusActive},
		{"one instant before end", end.Add(-time.Nanosecond), StatusActive},
		{"exactly at end", end, StatusCompleted},
		{"after end", end.Add(time.Hour), StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(tt.now, start, end))
		})
	}
}

func TestAcceptingVotesAt_IgnoresPersistedStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	election := &Election{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		// Persisted display status is stale on purpose.
		Status: StatusUpcoming,
	}

	assert.True(t, election.AcceptingVotesAt(start.Add(time.Hour)))
	assert.False(t, election.AcceptingVotesAt(start.Add(-time.Hour)))
	assert.False(t, election.AcceptingVotesAt(start.Add(49*time.Hour)))
}

func TestInCandidacyWindowAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	candStart := start.AddDate(0, 0, -14)
	candEnd := start.AddDate(0, 0, -2)

	t.Run("explicit window", func(t *testing.T) {
		election := &Election{
			StartDate:          start,
			EndDate:            start.Add(24 * time.Hour),
			CandidacyStartDate: &candStart,
			CandidacyEndDate:   &candEnd,
		}
		assert.False(t, election.InCandidacyWindowAt(candStart.Add(-time.Hour)))
		assert.True(t, election.InCandidacyWindowAt(candStart))
		assert.True(t, election.InCandidacyWindowAt(candEnd.Add(-time.Hour)))
		assert.False(t, election.InCandidacyWindowAt(candEnd))
	})

	t.Run("no configured window closes at voting start", func(t *testing.T) {
		election := &Election{
			StartDate: start,
			EndDate:   start.Add(24 * time.Hour),
		}
		assert.True(t, election.InCandidacyWindowAt(start.Add(-time.Minute)))
		assert.False(t, election.InCandidacyWindowAt(start))
	})
}

func TestHasPosition(t *testing.T) {
	election := &Election{Positions: []string{"President", "Secretary"}}
	assert.True(t, election.HasPosition("President"))
	assert.False(t, election.HasPosition("Treasurer"))
}

// Package models defines the election aggregate consumed by the voting core.
package models

import (
	"time"

	id "univote/pkg/domain"
)

// Status is the display state of an election. It is derived from the clock
// and the configured dates; the persisted column exists for display only and
// must never gate a voting decision.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Sentinel values that mark a restriction set as unrestricted.
const (
	CollegeUniversityWide = "University-wide"
	YearLevelAll          = "All Year Levels"
)

// Election is the configuration of one election. Title, description and the
// candidacy window are opaque to the voting core; the ballot structure is the
// ordered Positions list.
type Election struct {
	ID                 id.ElectionID
	Title              string
	Description        string
	StartDate          time.Time
	EndDate            time.Time
	CandidacyStartDate *time.Time
	CandidacyEndDate   *time.Time

	// Status is the last persisted display status. Stale by design; callers
	// needing truth use StatusAt.
	Status Status

	IsPrivate      bool
	AccessCodeHash string

	RestrictVoting     bool
	Colleges           []string
	EligibleYearLevels []string

	// Positions is the ordered list of contested positions. A complete ballot
	// carries exactly one selection per entry.
	Positions []string

	// TotalEligibleVoters is an advisory projection maintained by the
	// eligible-voter-list collaborator; read for participation-rate display.
	TotalEligibleVoters int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusAt derives the election status from the given instant.
func (e *Election) StatusAt(now time.Time) Status {
	return StatusAt(now, e.StartDate, e.EndDate)
}

// AcceptingVotesAt reports whether the voting window [start, end) contains
// now.
func (e *Election) AcceptingVotesAt(now time.Time) bool {
	return e.StatusAt(now) == StatusActive
}

// HasPosition reports whether the ballot structure contains the position.
func (e *Election) HasPosition(position string) bool {
	for _, p := range e.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// InCandidacyWindowAt reports whether candidate registration is open at now.
// Elections without a configured candidacy window accept registrations until
// voting starts.
func (e *Election) InCandidacyWindowAt(now time.Time) bool {
	if now.Compare(e.StartDate) >= 0 {
		return false
	}
	if e.CandidacyStartDate != nil && now.Before(*e.CandidacyStartDate) {
		return false
	}
	if e.CandidacyEndDate != nil && now.Compare(*e.CandidacyEndDate) >= 0 {
		return false
	}
	return true
}

// StatusAt is the single source of truth for status derivation:
// completed once the end date is reached, active once the start date is
// reached, upcoming before that.
func StatusAt(now, start, end time.Time) Status {
	switch {
	case now.Compare(end) >= 0:
		return StatusCompleted
	case now.Compare(start) >= 0:
		return StatusActive
	default:
		return StatusUpcoming
	}
}

// Candidate is one entrant for a position in an election. Immutable once the
// election's voting window opens.
type Candidate struct {
	ID         id.CandidateID
	ElectionID id.ElectionID
	Position   string
	Name       string
	Platform   string
	CreatedAt  time.Time
}

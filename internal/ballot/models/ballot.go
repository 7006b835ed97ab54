// Package models defines the ballot ledger types.
package models

import (
	"time"

	id "univote/pkg/domain"
)

// Selection is one voter's choice for one position: either a vote for a
// candidate or an explicit abstention. The zero value is an abstention, so a
// Selection can never be in an ambiguous state.
type Selection struct {
	candidateID id.CandidateID
	isVote      bool
}

// Vote selects a candidate.
func Vote(candidateID id.CandidateID) Selection {
	return Selection{candidateID: candidateID, isVote: true}
}

// Abstain selects no candidate for the position. Abstentions are recorded in
// the ledger like any other entry; they count toward position totals but not
// toward any candidate.
func Abstain() Selection {
	return Selection{}
}

// Candidate returns the selected candidate and true, or the zero ID and
// false for an abstention.
func (s Selection) Candidate() (id.CandidateID, bool) {
	return s.candidateID, s.isVote
}

// IsAbstain reports whether the selection is an abstention.
func (s Selection) IsAbstain() bool { return !s.isVote }

// Entry is one row of the vote ledger: one voter's selection for one
// position of one election. Entries are immutable once written; a nil
// CandidateID records an abstention.
type Entry struct {
	BallotID    id.BallotID
	ElectionID  id.ElectionID
	VoterID     id.UserID
	Position    string
	CandidateID *id.CandidateID
	CreatedAt   time.Time
}

// Receipt confirms a completed ballot. FirstChoice is the candidate of the
// first non-abstain selection in the election's position order; the receipt
// collaborator uses it for display.
type Receipt struct {
	BallotID    id.BallotID
	ElectionID  id.ElectionID
	FirstChoice *id.CandidateID
	SubmittedAt time.Time
}

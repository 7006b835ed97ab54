// Package domain defines the typed identifiers shared across univote modules.
//
// IDs are distinct uuid-backed types so an ElectionID can never be passed where
// a CandidateID is expected. Parsing happens once, at trust boundaries; services
// and stores only ever see validated IDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "univote/pkg/domain-errors"
)

type (
	// ElectionID identifies an election.
	ElectionID uuid.UUID

	// CandidateID identifies a candidate within an election.
	CandidateID uuid.UUID

	// BallotID identifies a completed ballot (one voter, one election).
	BallotID uuid.UUID

	// UserID identifies a voter or administrator account.
	UserID uuid.UUID
)

// ParseElectionID parses and validates an election ID from its string form.
func ParseElectionID(raw string) (ElectionID, error) {
	parsed, err := parseUUID(raw, "election_id")
	return ElectionID(parsed), err
}

// ParseCandidateID parses and validates a candidate ID from its string form.
func ParseCandidateID(raw string) (CandidateID, error) {
	parsed, err := parseUUID(raw, "candidate_id")
	return CandidateID(parsed), err
}

// ParseBallotID parses and validates a ballot ID from its string form.
func ParseBallotID(raw string) (BallotID, error) {
	parsed, err := parseUUID(raw, "ballot_id")
	return BallotID(parsed), err
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user_id")
	return UserID(parsed), err
}

// NewElectionID returns a fresh random election ID.
func NewElectionID() ElectionID { return ElectionID(uuid.New()) }

// NewCandidateID returns a fresh random candidate ID.
func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }

// NewBallotID returns a fresh random ballot ID.
func NewBallotID() BallotID { return BallotID(uuid.New()) }

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

func (id ElectionID) String() string  { return uuid.UUID(id).String() }
func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id BallotID) String() string    { return uuid.UUID(id).String() }
func (id UserID) String() string      { return uuid.UUID(id).String() }

func (id ElectionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BallotID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// IDs marshal as their canonical string form in JSON and text contexts.

func (id ElectionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id CandidateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id BallotID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *ElectionID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ElectionID(parsed)
	return nil
}

func (id *CandidateID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = CandidateID(parsed)
	return nil
}

func (id *BallotID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = BallotID(parsed)
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Field names in the error keep boundary messages specific.
func parseUUID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return parsed, nil
}

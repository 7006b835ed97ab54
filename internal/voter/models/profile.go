// Package models defines the voter profile subset the voting core consumes.
package models

import (
	"time"

	id "univote/pkg/domain"
)

// VoterProfile is maintained by the surrounding application (registration,
// role assignment); the voting core only reads it.
type VoterProfile struct {
	UserID     id.UserID
	Department string
	YearLevel  string

	// CanVote is the externally granted voting capability. Eligibility rules
	// are evaluated on top of it; it is not a substitute for them.
	CanVote bool

	UpdatedAt time.Time
}

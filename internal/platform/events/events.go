// Package events publishes ballot lifecycle events to Kafka.
//
// The voting core treats event delivery as a notification concern: receipts
// and downstream displays consume these, but ledger correctness never depends
// on them. A nil Publisher is valid and means "events disabled".
package events

import (
	"context"
	"time"

	"github.com/mssola/useragent"

	id "univote/pkg/domain"
)

// Event types carried on the ballot events topic.
const (
	TypeBallotRecorded = "ballot.recorded"
	TypeVotesReset     = "votes.reset"
)

// Envelope is the wire format for ballot events.
type Envelope struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ElectionID string         `json:"election_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher emits ballot events. Implementations must be safe for concurrent
// use.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
}

// BallotRecorded builds the envelope emitted after a ballot commits. The
// receipt collaborator renders it for display/printing.
func BallotRecorded(eventID string, ballotID id.BallotID, electionID id.ElectionID, voterID id.UserID, selections map[string]string, clientUA string, occurredAt time.Time) Envelope {
	return Envelope{
		ID:         eventID,
		Type:       TypeBallotRecorded,
		ElectionID: electionID.String(),
		OccurredAt: occurredAt,
		Payload: map[string]any{
			"ballot_id":  ballotID.String(),
			"voter_id":   voterID.String(),
			"selections": selections,
			"client":     SummarizeUserAgent(clientUA),
		},
	}
}

// VotesReset builds the envelope emitted after an administrative reset.
func VotesReset(eventID string, electionID id.ElectionID, actorID id.UserID, entriesDeleted int64, occurredAt time.Time) Envelope {
	return Envelope{
		ID:         eventID,
		Type:       TypeVotesReset,
		ElectionID: electionID.String(),
		OccurredAt: occurredAt,
		Payload: map[string]any{
			"actor_id":        actorID.String(),
			"entries_deleted": entriesDeleted,
		},
	}
}

// SummarizeUserAgent reduces a raw User-Agent header to "Browser on OS" for
// receipts and audit trails. Unknown agents come through as "unknown".
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, _ := ua.Browser()
	os := ua.OS()
	switch {
	case name == "" && os == "":
		return "unknown"
	case os == "":
		return name
	case name == "":
		return os
	default:
		return name + " on " + os
	}
}

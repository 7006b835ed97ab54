package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"univote/internal/ballot/models"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/platform/tx"
)

// uniqueViolation is the PostgreSQL error code raised when an insert hits
// the (election_id, voter_id, position) primary key.
const uniqueViolation = "23505"

// PostgresStore persists ledger entries in PostgreSQL. The composite primary
// key on ballot_entries is the authoritative double-vote guard.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertEntries writes all entries of one ballot in a single transaction.
// A unique-violation from any row aborts the transaction and surfaces as a
// conflict error. When the context already carries a transaction the entries
// join it and the owner decides the commit.
func (s *PostgresStore) InsertEntries(ctx context.Context, entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if ambient, ok := tx.From(ctx); ok {
		return insertEntries(ctx, ambient, entries)
	}

	own, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ballot transaction: %w", err)
	}
	defer own.Rollback()

	if err := insertEntries(ctx, own, entries); err != nil {
		return err
	}
	if err := own.Commit(); err != nil {
		return fmt.Errorf("commit ballot transaction: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []*models.Entry) error {
	query := `
		INSERT INTO ballot_entries (ballot_id, election_id, voter_id, position, candidate_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(entry.BallotID),
			uuid.UUID(entry.ElectionID),
			uuid.UUID(entry.VoterID),
			entry.Position,
			candidateValue(entry.CandidateID),
			entry.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
				return dErrors.New(dErrors.CodeConflict, "ballot entry already recorded")
			}
			return fmt.Errorf("insert ballot entry: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) HasVoted(ctx context.Context, electionID id.ElectionID, voterID id.UserID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ballot_entries
			WHERE election_id = $1 AND voter_id = $2
		)
	`
	var voted bool
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(electionID), uuid.UUID(voterID)).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("check voted: %w", err)
	}
	return voted, nil
}

func (s *PostgresStore) ListByElection(ctx context.Context, electionID id.ElectionID) ([]*models.Entry, error) {
	query := `
		SELECT ballot_id, election_id, voter_id, position, candidate_id, created_at
		FROM ballot_entries
		WHERE election_id = $1
		ORDER BY created_at, position
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(electionID))
	if err != nil {
		return nil, fmt.Errorf("list ballot entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var (
			entry       models.Entry
			ballotID    uuid.UUID
			electionRaw uuid.UUID
			voterID     uuid.UUID
			candidateID uuid.NullUUID
			createdAt   time.Time
		)
		err := rows.Scan(&ballotID, &electionRaw, &voterID, &entry.Position, &candidateID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan ballot entry: %w", err)
		}
		entry.BallotID = id.BallotID(ballotID)
		entry.ElectionID = id.ElectionID(electionRaw)
		entry.VoterID = id.UserID(voterID)
		entry.CreatedAt = createdAt
		if candidateID.Valid {
			cid := id.CandidateID(candidateID.UUID)
			entry.CandidateID = &cid
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ballot entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) CountDistinctVoters(ctx context.Context, electionID id.ElectionID) (int, error) {
	query := `SELECT COUNT(DISTINCT voter_id) FROM ballot_entries WHERE election_id = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(electionID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count distinct voters: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) DeleteVoterEntries(ctx context.Context, electionID id.ElectionID, voterID id.UserID) error {
	query := `DELETE FROM ballot_entries WHERE election_id = $1 AND voter_id = $2`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(electionID), uuid.UUID(voterID))
	if err != nil {
		return fmt.Errorf("delete voter entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteElectionEntries(ctx context.Context, electionID id.ElectionID) (int64, error) {
	query := `DELETE FROM ballot_entries WHERE election_id = $1`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(electionID))
	if err != nil {
		return 0, fmt.Errorf("delete election entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted entries: %w", err)
	}
	return deleted, nil
}

func candidateValue(candidateID *id.CandidateID) any {
	if candidateID == nil {
		return nil
	}
	return uuid.UUID(*candidateID)
}

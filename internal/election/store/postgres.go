package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"univote/internal/election/models"
	id "univote/pkg/domain"
)

// PostgresStore persists elections and candidates in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed election store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	query := `
		SELECT id, title, description, start_date, end_date,
		       candidacy_start_date, candidacy_end_date, status,
		       is_private, access_code_hash, restrict_voting,
		       colleges, eligible_year_levels, positions,
		       total_eligible_voters, created_at, updated_at
		FROM elections
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(electionID))
	election, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get election: %w", err)
	}
	return election, nil
}

func (s *PostgresStore) ListElections(ctx context.Context) ([]*models.Election, error) {
	query := `
		SELECT id, title, description, start_date, end_date,
		       candidacy_start_date, candidacy_end_date, status,
		       is_private, access_code_hash, restrict_voting,
		       colleges, eligible_year_levels, positions,
		       total_eligible_voters, created_at, updated_at
		FROM elections
		ORDER BY start_date DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	var elections []*models.Election
	for rows.Next() {
		election, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		elections = append(elections, election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elections: %w", err)
	}
	return elections, nil
}

func (s *PostgresStore) CreateElection(ctx context.Context, election *models.Election) error {
	query := `
		INSERT INTO elections (
			id, title, description, start_date, end_date,
			candidacy_start_date, candidacy_end_date, status,
			is_private, access_code_hash, restrict_voting,
			colleges, eligible_year_levels, positions,
			total_eligible_voters, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(election.ID),
		election.Title,
		election.Description,
		election.StartDate,
		election.EndDate,
		nullTime(election.CandidacyStartDate),
		nullTime(election.CandidacyEndDate),
		string(election.Status),
		election.IsPrivate,
		nullString(election.AccessCodeHash),
		election.RestrictVoting,
		pq.Array(election.Colleges),
		pq.Array(election.EligibleYearLevels),
		pq.Array(election.Positions),
		election.TotalEligibleVoters,
		election.CreatedAt,
		election.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error {
	query := `UPDATE elections SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, uuid.UUID(electionID), string(status)); err != nil {
		return fmt.Errorf("update election status: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error) {
	// created_at, id ordering gives the stable insertion order tallies rely on.
	query := `
		SELECT id, election_id, position, name, platform, created_at
		FROM candidates
		WHERE election_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(electionID))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		var (
			candidate   models.Candidate
			candidateID uuid.UUID
			parentID    uuid.UUID
		)
		if err := rows.Scan(&candidateID, &parentID, &candidate.Position, &candidate.Name, &candidate.Platform, &candidate.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidate.ID = id.CandidateID(candidateID)
		candidate.ElectionID = id.ElectionID(parentID)
		candidates = append(candidates, &candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

func (s *PostgresStore) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (id, election_id, position, name, platform, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(candidate.ID),
		uuid.UUID(candidate.ElectionID),
		candidate.Position,
		candidate.Name,
		candidate.Platform,
		candidate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*models.Election, error) {
	var (
		election       models.Election
		electionID     uuid.UUID
		candidacyStart sql.NullTime
		candidacyEnd   sql.NullTime
		accessCode     sql.NullString
		status         string
	)
	err := row.Scan(
		&electionID,
		&election.Title,
		&election.Description,
		&election.StartDate,
		&election.EndDate,
		&candidacyStart,
		&candidacyEnd,
		&status,
		&election.IsPrivate,
		&accessCode,
		&election.RestrictVoting,
		pq.Array(&election.Colleges),
		pq.Array(&election.EligibleYearLevels),
		pq.Array(&election.Positions),
		&election.TotalEligibleVoters,
		&election.CreatedAt,
		&election.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	election.ID = id.ElectionID(electionID)
	election.Status = models.Status(status)
	if candidacyStart.Valid {
		start := candidacyStart.Time
		election.CandidacyStartDate = &start
	}
	if candidacyEnd.Valid {
		end := candidacyEnd.Time
		election.CandidacyEndDate = &end
	}
	if accessCode.Valid {
		election.AccessCodeHash = accessCode.String
	}
	return &election, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

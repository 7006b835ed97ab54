package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"univote/internal/voter/models"
	id "univote/pkg/domain"
)

// PostgresStore reads voter profiles from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID id.UserID) (*models.VoterProfile, error) {
	query := `
		SELECT user_id, department, year_level, can_vote, updated_at
		FROM voter_profiles
		WHERE user_id = $1
	`
	var (
		profile models.VoterProfile
		rawID   uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&rawID,
		&profile.Department,
		&profile.YearLevel,
		&profile.CanVote,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voter profile: %w", err)
	}
	profile.UserID = id.UserID(rawID)
	return &profile, nil
}

func (s *PostgresStore) PutProfile(ctx context.Context, profile models.VoterProfile) error {
	query := `
		INSERT INTO voter_profiles (user_id, department, year_level, can_vote, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			department = EXCLUDED.department,
			year_level = EXCLUDED.year_level,
			can_vote = EXCLUDED.can_vote,
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(profile.UserID),
		profile.Department,
		profile.YearLevel,
		profile.CanVote,
	)
	if err != nil {
		return fmt.Errorf("upsert voter profile: %w", err)
	}
	return nil
}

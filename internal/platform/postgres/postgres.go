// Package postgres opens the database connection and bootstraps the schema.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL with pool settings suited to a small service.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// CreateSchema creates all tables needed by the service.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS elections (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    candidacy_start_date TIMESTAMPTZ,
    candidacy_end_date TIMESTAMPTZ,
    status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'active', 'completed')),
    is_private BOOLEAN NOT NULL DEFAULT FALSE,
    access_code_hash TEXT,
    restrict_voting BOOLEAN NOT NULL DEFAULT FALSE,
    colleges TEXT[] NOT NULL DEFAULT '{}',
    eligible_year_levels TEXT[] NOT NULL DEFAULT '{}',
    positions TEXT[] NOT NULL,
    total_eligible_voters INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (start_date < end_date)
);

CREATE INDEX IF NOT EXISTS idx_elections_dates ON elections(start_date, end_date);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id UUID PRIMARY KEY,
    election_id UUID NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    name TEXT NOT NULL,
    platform TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidates_election ON candidates(election_id);
CREATE INDEX IF NOT EXISTS idx_candidates_election_position ON candidates(election_id, position);

-- Voter profiles (maintained by the surrounding application; read-only here)
CREATE TABLE IF NOT EXISTS voter_profiles (
    user_id UUID PRIMARY KEY,
    department TEXT NOT NULL DEFAULT '',
    year_level TEXT NOT NULL DEFAULT '',
    can_vote BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Ballot ledger. The composite unique index is the authoritative double-vote
-- guard; the coordinator's pre-check is only a fast path.
CREATE TABLE IF NOT EXISTS ballot_entries (
    ballot_id UUID NOT NULL,
    election_id UUID NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    voter_id UUID NOT NULL,
    position TEXT NOT NULL,
    candidate_id UUID REFERENCES candidates(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (election_id, voter_id, position)
);

CREATE INDEX IF NOT EXISTS idx_ballot_entries_election ON ballot_entries(election_id);
CREATE INDEX IF NOT EXISTS idx_ballot_entries_voter ON ballot_entries(election_id, voter_id);
`

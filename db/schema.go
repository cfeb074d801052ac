// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the database of the given type and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres, TypeSQLite:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; an in-memory database also lives on a single connection.
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application and seeds the
// election record. Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Election (single row)
CREATE TABLE IF NOT EXISTS election (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    status TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started', 'active', 'ended')),
    start_time BIGINT,
    end_time BIGINT,
    current_round INTEGER NOT NULL DEFAULT 1 CHECK (current_round >= 1),
    round_duration_ms BIGINT NOT NULL DEFAULT 0,
    total_voters BIGINT NOT NULL DEFAULT 0,
    total_candidates BIGINT NOT NULL DEFAULT 0,
    total_votes BIGINT NOT NULL DEFAULT 0
);

INSERT INTO election (id) VALUES (1) ON CONFLICT (id) DO NOTHING;

-- Voter registry
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    registered BOOLEAN NOT NULL DEFAULT TRUE,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    delegate_to TEXT,
    chosen_candidate BIGINT,
    delegations BIGINT NOT NULL DEFAULT 0
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0)
);

-- Ballots (one per voter per round)
CREATE TABLE IF NOT EXISTS ballot (
    round INTEGER NOT NULL,
    voter_id TEXT NOT NULL REFERENCES voter(id),
    candidate_id BIGINT NOT NULL REFERENCES candidate(id),
    cast_at BIGINT NOT NULL,
    PRIMARY KEY (round, voter_id)
);

-- Tallies frozen when a round closes
CREATE TABLE IF NOT EXISTS round_tally (
    round INTEGER NOT NULL,
    candidate_id BIGINT NOT NULL REFERENCES candidate(id),
    vote_count BIGINT NOT NULL,
    PRIMARY KEY (round, candidate_id)
);
`

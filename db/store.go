// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
)

// Store persists election state in a SQL database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (election.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

func (t *storeTx) Rollback() error {
	return t.tx.Rollback()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func (t *storeTx) Election(ctx context.Context) (models.Election, error) {
	var e models.Election
	var startTime, endTime sql.NullInt64
	var roundDurationMS int64

	err := t.tx.QueryRowContext(ctx, `
		SELECT status, start_time, end_time, current_round, round_duration_ms,
		       total_voters, total_candidates, total_votes
		FROM election
		WHERE id = 1
	`).Scan(
		&e.Status, &startTime, &endTime, &e.CurrentRound, &roundDurationMS,
		&e.TotalVoters, &e.TotalCandidates, &e.TotalVotes,
	)
	if err != nil {
		return models.Election{}, err
	}

	if startTime.Valid {
		st := fromMillis(startTime.Int64)
		e.StartTime = &st
	}
	if endTime.Valid {
		et := fromMillis(endTime.Int64)
		e.EndTime = &et
	}
	e.RoundDuration = time.Duration(roundDurationMS) * time.Millisecond

	return e, nil
}

func (t *storeTx) SaveElection(ctx context.Context, e models.Election) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE election
		SET status = $1, start_time = $2, end_time = $3, current_round = $4,
		    round_duration_ms = $5, total_voters = $6, total_candidates = $7, total_votes = $8
		WHERE id = 1
	`, e.Status, nullMillis(e.StartTime), nullMillis(e.EndTime), e.CurrentRound,
		e.RoundDuration.Milliseconds(), e.TotalVoters, e.TotalCandidates, e.TotalVotes)
	return err
}

func scanVoter(row interface{ Scan(...any) error }) (models.Voter, error) {
	var v models.Voter
	var delegateTo sql.NullString
	var chosen sql.NullInt64

	if err := row.Scan(&v.ID, &v.Registered, &v.HasVoted, &delegateTo, &chosen, &v.Delegations); err != nil {
		return models.Voter{}, err
	}
	if delegateTo.Valid {
		v.DelegateTo = &delegateTo.String
	}
	if chosen.Valid {
		v.ChosenCandidate = &chosen.Int64
	}
	return v, nil
}

func (t *storeTx) Voter(ctx context.Context, id string) (models.Voter, bool, error) {
	v, err := scanVoter(t.tx.QueryRowContext(ctx, `
		SELECT id, registered, has_voted, delegate_to, chosen_candidate, delegations
		FROM voter
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return models.Voter{}, false, nil
	}
	if err != nil {
		return models.Voter{}, false, err
	}
	return v, true, nil
}

func (t *storeTx) SaveVoter(ctx context.Context, v models.Voter) error {
	var delegateTo sql.NullString
	if v.DelegateTo != nil {
		delegateTo = sql.NullString{String: *v.DelegateTo, Valid: true}
	}
	var chosen sql.NullInt64
	if v.ChosenCandidate != nil {
		chosen = sql.NullInt64{Int64: *v.ChosenCandidate, Valid: true}
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO voter (id, registered, has_voted, delegate_to, chosen_candidate, delegations)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			registered = EXCLUDED.registered,
			has_voted = EXCLUDED.has_voted,
			delegate_to = EXCLUDED.delegate_to,
			chosen_candidate = EXCLUDED.chosen_candidate,
			delegations = EXCLUDED.delegations
	`, v.ID, v.Registered, v.HasVoted, delegateTo, chosen, v.Delegations)
	return err
}

func (t *storeTx) Voters(ctx context.Context) ([]models.Voter, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, registered, has_voted, delegate_to, chosen_candidate, delegations
		FROM voter
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

func (t *storeTx) Candidate(ctx context.Context, id int64) (models.Candidate, bool, error) {
	var c models.Candidate
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, vote_count FROM candidate WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.VoteCount)
	if err == sql.ErrNoRows {
		return models.Candidate{}, false, nil
	}
	if err != nil {
		return models.Candidate{}, false, err
	}
	return c, true, nil
}

func (t *storeTx) SaveCandidate(ctx context.Context, c models.Candidate) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO candidate (id, name, vote_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			vote_count = EXCLUDED.vote_count
	`, c.ID, c.Name, c.VoteCount)
	return err
}

func (t *storeTx) Candidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, name, vote_count FROM candidate ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.VoteCount); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (t *storeTx) HasBallot(ctx context.Context, round int, voterID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ballot
			WHERE round = $1 AND voter_id = $2
		)
	`, round, voterID).Scan(&exists)
	return exists, err
}

func (t *storeTx) SaveBallot(ctx context.Context, b models.Ballot) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO ballot (round, voter_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, b.Round, b.VoterID, b.CandidateID, toMillis(b.CastAt))
	return err
}

func (t *storeTx) SaveRoundTally(ctx context.Context, round int, tallies []models.Tally) error {
	for _, tally := range tallies {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO round_tally (round, candidate_id, vote_count)
			VALUES ($1, $2, $3)
			ON CONFLICT (round, candidate_id) DO UPDATE SET
				vote_count = EXCLUDED.vote_count
		`, round, tally.CandidateID, tally.VoteCount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *storeTx) RoundTally(ctx context.Context, round int) ([]models.Tally, bool, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT t.candidate_id, c.name, t.vote_count
		FROM round_tally t
		JOIN candidate c ON c.id = t.candidate_id
		WHERE t.round = $1
		ORDER BY t.candidate_id
	`, round)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	tallies := []models.Tally{}
	for rows.Next() {
		var tally models.Tally
		if err := rows.Scan(&tally.CandidateID, &tally.Name, &tally.VoteCount); err != nil {
			return nil, false, err
		}
		tallies = append(tallies, tally)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return tallies, len(tallies) > 0, nil
}

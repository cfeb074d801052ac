// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

// Store opens transactions against the persisted election state.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one all-or-nothing unit of work. Writes made through a Tx are only
// visible to other transactions after Commit.
type Tx interface {
	Election(ctx context.Context) (models.Election, error)
	SaveElection(ctx context.Context, e models.Election) error

	Voter(ctx context.Context, id string) (models.Voter, bool, error)
	SaveVoter(ctx context.Context, v models.Voter) error
	Voters(ctx context.Context) ([]models.Voter, error)

	Candidate(ctx context.Context, id int64) (models.Candidate, bool, error)
	SaveCandidate(ctx context.Context, c models.Candidate) error
	Candidates(ctx context.Context) ([]models.Candidate, error)

	HasBallot(ctx context.Context, round int, voterID string) (bool, error)
	SaveBallot(ctx context.Context, b models.Ballot) error

	SaveRoundTally(ctx context.Context, round int, tallies []models.Tally) error
	RoundTally(ctx context.Context, round int) ([]models.Tally, bool, error)

	Commit() error
	Rollback() error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

// Results returns the cumulative tally of every candidate as of round.
// The current round reports live counts; closed rounds report the counts
// frozen when they closed.
func (m *Machine) Results(ctx context.Context, round int) ([]models.Tally, error) {
	var tallies []models.Tally
	err := m.view(ctx, func(tx Tx) error {
		var err error
		tallies, err = roundTallies(ctx, tx, round)
		return err
	})
	return tallies, err
}

// Winner returns the candidate with the strictly greatest tally in round.
// Ties go to the lowest id.
func (m *Machine) Winner(ctx context.Context, round int) (models.Tally, error) {
	tallies, err := m.Results(ctx, round)
	if err != nil {
		return models.Tally{}, err
	}

	var winner *models.Tally
	for i := range tallies {
		if tallies[i].VoteCount == 0 {
			continue
		}
		if winner == nil || tallies[i].VoteCount > winner.VoteCount {
			winner = &tallies[i]
		}
	}
	if winner == nil {
		return models.Tally{}, ErrNoVotesCast
	}
	return *winner, nil
}

func roundTallies(ctx context.Context, tx Tx, round int) ([]models.Tally, error) {
	e, err := loadElection(ctx, tx)
	if err != nil {
		return nil, err
	}
	if round < 1 {
		return nil, ErrWrongRound
	}
	if round > e.CurrentRound {
		return nil, ErrFutureRound
	}

	if round < e.CurrentRound {
		tallies, found, err := tx.RoundTally(ctx, round)
		if err != nil {
			return nil, fmt.Errorf("failed to load round tally: %w", err)
		}
		if !found {
			return nil, fmt.Errorf("no tally recorded for round %d", round)
		}
		return tallies, nil
	}

	candidates, err := tx.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	return talliesOf(candidates), nil
}

// Status returns the election record including running totals.
func (m *Machine) Status(ctx context.Context) (models.Election, error) {
	var e models.Election
	err := m.view(ctx, func(tx Tx) error {
		var err error
		e, err = loadElection(ctx, tx)
		return err
	})
	return e, err
}

// CurrentRound returns the current round number.
func (m *Machine) CurrentRound(ctx context.Context) (int, error) {
	e, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}
	return e.CurrentRound, nil
}

// TimeRemaining returns how long the current voting window stays open.
func (m *Machine) TimeRemaining(ctx context.Context) (time.Duration, error) {
	_, remaining, err := m.StatusWithRemaining(ctx)
	return remaining, err
}

// StatusWithRemaining returns the election record and the time left in its
// voting window, both taken from the same read.
func (m *Machine) StatusWithRemaining(ctx context.Context) (models.Election, time.Duration, error) {
	var (
		e         models.Election
		remaining time.Duration
	)
	err := m.view(ctx, func(tx Tx) error {
		var err error
		e, err = loadElection(ctx, tx)
		if err != nil {
			return err
		}
		remaining = timeRemaining(e, m.clock.Now())
		return nil
	})
	return e, remaining, err
}

func timeRemaining(e models.Election, now time.Time) time.Duration {
	if e.EndTime == nil {
		return 0
	}
	if left := e.EndTime.Sub(now); left > 0 {
		return left
	}
	return 0
}

// VoterParticipation returns how many delegations id has performed.
// Unknown identities report zero.
func (m *Machine) VoterParticipation(ctx context.Context, id string) (int64, error) {
	var count int64
	err := m.view(ctx, func(tx Tx) error {
		v, found, err := tx.Voter(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load voter: %w", err)
		}
		if found {
			count = v.Delegations
		}
		return nil
	})
	return count, err
}

// Voter returns the stored record for id.
func (m *Machine) Voter(ctx context.Context, id string) (models.Voter, error) {
	var voter models.Voter
	err := m.view(ctx, func(tx Tx) error {
		v, found, err := tx.Voter(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load voter: %w", err)
		}
		if !found {
			return ErrNotRegistered
		}
		voter = v
		return nil
	})
	return voter, err
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

// MaxDuration bounds a voting window so that every deadline stays
// representable as unix milliseconds.
const MaxDuration = 100 * 365 * 24 * time.Hour

// Machine runs the election state machine for a single administrator.
type Machine struct {
	store  Store
	admin  string
	clock  Clock
	logger *slog.Logger

	// serializes operations so each transaction sees the previous one's commit
	mu sync.Mutex
}

// New creates a Machine. The administrator identity is fixed for its lifetime.
func New(store Store, admin string, clock Clock, logger *slog.Logger) (*Machine, error) {
	admin = strings.TrimSpace(admin)
	if admin == "" {
		return nil, ErrInvalidIdentity
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{store: store, admin: admin, clock: clock, logger: logger}, nil
}

// Admin returns the administrator identity.
func (m *Machine) Admin() string {
	return m.admin
}

func (m *Machine) requireAdministrator(caller string) error {
	if caller != m.admin {
		return ErrUnauthorized
	}
	return nil
}

// update runs fn in a transaction and commits only if fn succeeds.
func (m *Machine) update(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// view runs fn in a transaction that is always rolled back.
func (m *Machine) view(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(tx)
}

func loadElection(ctx context.Context, tx Tx) (models.Election, error) {
	e, err := tx.Election(ctx)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to load election: %w", err)
	}
	return e, nil
}

func requireNotStarted(e models.Election) error {
	switch e.Status {
	case models.StatusActive:
		return ErrElectionAlreadyActive
	case models.StatusEnded:
		return ErrElectionHasEnded
	}
	return nil
}

// requireVotingOpen reports whether ballots and delegations are accepted at now.
// The deadline itself is inside the window: at now == endTime ballots are
// still accepted and EndElection is already allowed.
func requireVotingOpen(e models.Election, now time.Time) error {
	switch e.Status {
	case models.StatusNotStarted:
		return ErrElectionNotActive
	case models.StatusEnded:
		return ErrElectionHasEnded
	}
	if e.EndTime != nil && now.After(*e.EndTime) {
		return ErrElectionHasEnded
	}
	return nil
}

// StartElection opens round 1 for the given duration.
func (m *Machine) StartElection(ctx context.Context, caller string, duration time.Duration) (models.Election, error) {
	var started models.Election
	err := m.update(ctx, func(tx Tx) error {
		if err := m.requireAdministrator(caller); err != nil {
			return err
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireNotStarted(e); err != nil {
			return err
		}
		if e.TotalCandidates < 1 {
			return ErrNoCandidates
		}
		if duration <= 0 || duration > MaxDuration {
			return ErrInvalidDuration
		}

		now := m.clock.Now()
		end := now.Add(duration)
		e.Status = models.StatusActive
		e.StartTime = &now
		e.EndTime = &end
		e.RoundDuration = duration
		if e.CurrentRound < 1 {
			e.CurrentRound = 1
		}

		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		started = e
		return nil
	})
	if err != nil {
		return models.Election{}, err
	}

	m.logger.Info("election started", "round", started.CurrentRound, "ends_at", started.EndTime)
	return started, nil
}

// EndElection closes the election once the deadline has been reached.
func (m *Machine) EndElection(ctx context.Context, caller string) (models.Election, error) {
	var ended models.Election
	err := m.update(ctx, func(tx Tx) error {
		if err := m.requireAdministrator(caller); err != nil {
			return err
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if e.Status != models.StatusActive {
			return ErrElectionNotActive
		}
		if m.clock.Now().Before(*e.EndTime) {
			return ErrElectionNotEnded
		}

		if err := snapshotRound(ctx, tx, e.CurrentRound); err != nil {
			return err
		}
		e.Status = models.StatusEnded
		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		ended = e
		return nil
	})
	if err != nil {
		return models.Election{}, err
	}

	m.logger.Info("election ended", "round", ended.CurrentRound, "total_votes", ended.TotalVotes)
	return ended, nil
}

// AdvanceRound closes the current round after its deadline and opens the next
// one for a fresh window of the original duration.
func (m *Machine) AdvanceRound(ctx context.Context, caller string) (models.Election, error) {
	var advanced models.Election
	err := m.update(ctx, func(tx Tx) error {
		if err := m.requireAdministrator(caller); err != nil {
			return err
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if e.Status != models.StatusActive {
			return ErrElectionNotActive
		}
		now := m.clock.Now()
		if !now.After(*e.EndTime) {
			return ErrElectionNotEnded
		}

		if err := snapshotRound(ctx, tx, e.CurrentRound); err != nil {
			return err
		}
		end := now.Add(e.RoundDuration)
		e.CurrentRound++
		e.StartTime = &now
		e.EndTime = &end
		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		advanced = e
		return nil
	})
	if err != nil {
		return models.Election{}, err
	}

	m.logger.Info("round advanced", "round", advanced.CurrentRound, "ends_at", advanced.EndTime)
	return advanced, nil
}

// snapshotRound freezes the cumulative tallies as the result of round.
func snapshotRound(ctx context.Context, tx Tx, round int) error {
	candidates, err := tx.Candidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}
	if err := tx.SaveRoundTally(ctx, round, talliesOf(candidates)); err != nil {
		return fmt.Errorf("failed to save round tally: %w", err)
	}
	return nil
}

func talliesOf(candidates []models.Candidate) []models.Tally {
	tallies := make([]models.Tally, len(candidates))
	for i, c := range candidates {
		tallies[i] = models.Tally{CandidateID: c.ID, Name: c.Name, VoteCount: c.VoteCount}
	}
	return tallies
}

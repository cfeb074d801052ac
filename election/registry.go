// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-elect/models"
)

// RegisterVoter adds target to the allow-list.
func (m *Machine) RegisterVoter(ctx context.Context, caller, target string) (models.Voter, error) {
	target = strings.TrimSpace(target)

	var voter models.Voter
	err := m.update(ctx, func(tx Tx) error {
		if err := m.requireAdministrator(caller); err != nil {
			return err
		}
		if target == "" {
			return ErrInvalidIdentity
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireNotStarted(e); err != nil {
			return err
		}

		existing, found, err := tx.Voter(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to load voter: %w", err)
		}
		if found && existing.Registered {
			return ErrAlreadyRegistered
		}

		// A previously unregistered identity starts over with a clean record.
		voter = models.Voter{ID: target, Registered: true}
		if err := tx.SaveVoter(ctx, voter); err != nil {
			return fmt.Errorf("failed to save voter: %w", err)
		}
		e.TotalVoters++
		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Voter{}, err
	}

	m.logger.Info("voter registered", "voter_id", target)
	return voter, nil
}

// UnregisterVoter removes target from the allow-list.
func (m *Machine) UnregisterVoter(ctx context.Context, caller, target string) error {
	target = strings.TrimSpace(target)

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

		voter, err := registeredVoter(ctx, tx, target)
		if err != nil {
			return err
		}
		voter.Registered = false
		if err := tx.SaveVoter(ctx, voter); err != nil {
			return fmt.Errorf("failed to save voter: %w", err)
		}
		e.TotalVoters--
		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("voter unregistered", "voter_id", target)
	return nil
}

// AddCandidate appends a candidate with the next sequential id.
func (m *Machine) AddCandidate(ctx context.Context, caller, name string) (models.Candidate, error) {
	name = strings.TrimSpace(name)

	var candidate models.Candidate
	err := m.update(ctx, func(tx Tx) error {
		if err := m.requireAdministrator(caller); err != nil {
			return err
		}
		if name == "" {
			return ErrInvalidCandidateName
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireNotStarted(e); err != nil {
			return err
		}

		candidate = models.Candidate{ID: e.TotalCandidates + 1, Name: name}
		if err := tx.SaveCandidate(ctx, candidate); err != nil {
			return fmt.Errorf("failed to save candidate: %w", err)
		}
		e.TotalCandidates++
		if err := tx.SaveElection(ctx, e); err != nil {
			return fmt.Errorf("failed to save election: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	m.logger.Info("candidate added", "candidate_id", candidate.ID, "name", candidate.Name)
	return candidate, nil
}

// Candidates lists candidates in id order.
func (m *Machine) Candidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := m.view(ctx, func(tx Tx) error {
		var err error
		candidates, err = tx.Candidates(ctx)
		if err != nil {
			return fmt.Errorf("failed to load candidates: %w", err)
		}
		return nil
	})
	return candidates, err
}

// Voters lists every identity that was ever registered. Administrator only.
func (m *Machine) Voters(ctx context.Context, caller string) ([]models.Voter, error) {
	if err := m.requireAdministrator(caller); err != nil {
		return nil, err
	}

	var voters []models.Voter
	err := m.view(ctx, func(tx Tx) error {
		var err error
		voters, err = tx.Voters(ctx)
		if err != nil {
			return fmt.Errorf("failed to load voters: %w", err)
		}
		return nil
	})
	return voters, err
}

// IsRegistered reports whether id is currently on the allow-list.
func (m *Machine) IsRegistered(ctx context.Context, id string) (bool, error) {
	var registered bool
	err := m.view(ctx, func(tx Tx) error {
		v, found, err := tx.Voter(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load voter: %w", err)
		}
		registered = found && v.Registered
		return nil
	})
	return registered, err
}

func registeredVoter(ctx context.Context, tx Tx, id string) (models.Voter, error) {
	v, found, err := tx.Voter(ctx, id)
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to load voter: %w", err)
	}
	if !found || !v.Registered {
		return models.Voter{}, ErrNotRegistered
	}
	return v, nil
}

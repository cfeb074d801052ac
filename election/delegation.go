// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-elect/models"
)

// DelegateVote forwards caller's ballot right to another registered voter.
// A delegation is permanent and transfers no extra weight.
func (m *Machine) DelegateVote(ctx context.Context, caller, to string) (models.Voter, error) {
	to = strings.TrimSpace(to)

	var voter models.Voter
	err := m.update(ctx, func(tx Tx) error {
		var err error
		voter, err = registeredVoter(ctx, tx, caller)
		if err != nil {
			return err
		}
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireVotingOpen(e, m.clock.Now()); err != nil {
			return err
		}
		if to == caller {
			return ErrSelfDelegation
		}
		if voter.DelegateTo != nil {
			return ErrHasDelegated
		}
		if voter.HasVoted {
			return ErrAlreadyVoted
		}
		if _, err := registeredVoter(ctx, tx, to); err != nil {
			if errors.Is(err, ErrNotRegistered) {
				return ErrDelegateNotRegistered
			}
			return err
		}
		if err := checkDelegationChain(ctx, tx, caller, to, e.TotalVoters); err != nil {
			return err
		}

		voter.DelegateTo = &to
		voter.Delegations++
		if err := tx.SaveVoter(ctx, voter); err != nil {
			return fmt.Errorf("failed to save voter: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Voter{}, err
	}

	m.logger.Info("vote delegated", "voter_id", caller, "delegate", to)
	return voter, nil
}

// checkDelegationChain follows delegate links from to and fails if the chain
// returns to caller. The walk is capped at limit lookups; exceeding the cap is
// reported as a loop.
func checkDelegationChain(ctx context.Context, tx Tx, caller, to string, limit int64) error {
	current := to
	for steps := int64(0); ; steps++ {
		if current == caller || steps >= limit {
			return ErrDelegationLoopDetected
		}
		v, found, err := tx.Voter(ctx, current)
		if err != nil {
			return fmt.Errorf("failed to load voter: %w", err)
		}
		if !found || v.DelegateTo == nil {
			return nil
		}
		current = *v.DelegateTo
	}
}

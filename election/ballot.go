// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"

	"github.com/danielhkuo/quickly-elect/models"
)

// Vote casts caller's ballot for candidateID in the current round.
func (m *Machine) Vote(ctx context.Context, caller string, candidateID int64) (models.Ballot, error) {
	var ballot models.Ballot
	err := m.update(ctx, func(tx Tx) error {
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		ballot, err = m.castBallot(ctx, tx, e, caller, candidateID)
		return err
	})
	if err != nil {
		return models.Ballot{}, err
	}

	m.logger.Info("ballot cast", "voter_id", caller, "round", ballot.Round, "candidate_id", ballot.CandidateID)
	return ballot, nil
}

// VoteInRound is Vote guarded by the caller's expectation of the current round.
func (m *Machine) VoteInRound(ctx context.Context, caller string, candidateID int64, round int) (models.Ballot, error) {
	var ballot models.Ballot
	err := m.update(ctx, func(tx Tx) error {
		e, err := loadElection(ctx, tx)
		if err != nil {
			return err
		}
		if round != e.CurrentRound {
			return ErrWrongRound
		}
		ballot, err = m.castBallot(ctx, tx, e, caller, candidateID)
		return err
	})
	if err != nil {
		return models.Ballot{}, err
	}

	m.logger.Info("ballot cast", "voter_id", caller, "round", ballot.Round, "candidate_id", ballot.CandidateID)
	return ballot, nil
}

func (m *Machine) castBallot(ctx context.Context, tx Tx, e models.Election, caller string, candidateID int64) (models.Ballot, error) {
	voter, err := registeredVoter(ctx, tx, caller)
	if err != nil {
		return models.Ballot{}, err
	}
	now := m.clock.Now()
	if err := requireVotingOpen(e, now); err != nil {
		return models.Ballot{}, err
	}
	if candidateID < 1 || candidateID > e.TotalCandidates {
		return models.Ballot{}, ErrInvalidCandidate
	}
	if voter.DelegateTo != nil {
		return models.Ballot{}, ErrHasDelegated
	}
	voted, err := tx.HasBallot(ctx, e.CurrentRound, caller)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to check ballot: %w", err)
	}
	if voted {
		return models.Ballot{}, ErrAlreadyVotedThisRound
	}

	candidate, found, err := tx.Candidate(ctx, candidateID)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to load candidate: %w", err)
	}
	if !found {
		return models.Ballot{}, ErrInvalidCandidate
	}

	candidate.VoteCount++
	if err := tx.SaveCandidate(ctx, candidate); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to save candidate: %w", err)
	}

	ballot := models.Ballot{Round: e.CurrentRound, VoterID: caller, CandidateID: candidateID, CastAt: now}
	if err := tx.SaveBallot(ctx, ballot); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to save ballot: %w", err)
	}

	voter.HasVoted = true
	voter.ChosenCandidate = &candidateID
	if err := tx.SaveVoter(ctx, voter); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to save voter: %w", err)
	}

	e.TotalVotes++
	if err := tx.SaveElection(ctx, e); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to save election: %w", err)
	}
	return ballot, nil
}

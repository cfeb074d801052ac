// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "errors"

var (
	ErrUnauthorized           = errors.New("caller is not the administrator")
	ErrAlreadyRegistered      = errors.New("voter already registered")
	ErrNotRegistered          = errors.New("voter not registered")
	ErrElectionNotActive      = errors.New("election is not active")
	ErrElectionAlreadyActive  = errors.New("election already active")
	ErrElectionNotEnded       = errors.New("election deadline has not passed")
	ErrElectionHasEnded       = errors.New("election has ended")
	ErrInvalidCandidate       = errors.New("invalid candidate")
	ErrAlreadyVotedThisRound  = errors.New("already voted this round")
	ErrAlreadyVoted           = errors.New("already voted")
	ErrSelfDelegation         = errors.New("cannot delegate to self")
	ErrDelegateNotRegistered  = errors.New("delegate not registered")
	ErrDelegationLoopDetected = errors.New("delegation loop detected")
	ErrHasDelegated           = errors.New("voter has delegated")
	ErrWrongRound             = errors.New("wrong round")
	ErrFutureRound            = errors.New("round has not happened yet")
	ErrNoCandidates           = errors.New("no candidates")
	ErrNoVotesCast            = errors.New("no votes cast")
	ErrInvalidDuration        = errors.New("duration must be positive")
	ErrInvalidIdentity        = errors.New("identity is required")
	ErrInvalidCandidateName   = errors.New("candidate name is required")
)

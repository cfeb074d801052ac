// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election state machine.

# Machine

A Machine is bound to one administrator identity and a transactional Store:

	m, err := election.New(store, "admin", election.SystemClock{}, logger)

Every operation takes the caller identity explicitly. Mutating operations run
in a single store transaction and either commit all of their effects or none.

# Lifecycle

Elections progress through three states: not_started → active → ended

	RegisterVoter / UnregisterVoter / AddCandidate   (not_started only)
	StartElection(duration)                           → active, round 1
	AdvanceRound                                      (after the deadline) → round n+1
	EndElection                                       (after the deadline) → ended

Advancing a round freezes the tallies of the finished round and reopens voting
for another window of the original duration.

# Voting

Registered voters either delegate once or vote once per round:

	m.DelegateVote(ctx, "alice", "bob")
	m.Vote(ctx, "bob", 2)
	m.VoteInRound(ctx, "bob", 2, 1)

Delegation chains must stay acyclic. The chain walk is capped at the number of
registered voters and reports a loop when the cap is hit.

# Results

	tallies, err := m.Results(ctx, round)
	winner, err := m.Winner(ctx, round)

Tallies are cumulative. Asking about a round after the current one returns
ErrFutureRound; asking for a winner before any vote returns ErrNoVotesCast.
*/
package election

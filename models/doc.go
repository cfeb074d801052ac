// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: voter_id
  - AddCandidateRequest: name
  - StartElectionRequest: duration_seconds
  - DelegateVoteRequest: to
  - CastVoteRequest: candidate_id, optional round

# Response Types

Types for JSON responses:

  - RegisterVoterResponse: voter_id, access_key
  - CastVoteResponse: round, candidate_id, message
  - ElectionStatusResponse: election, time remaining
  - ResultsResponse: round, tallies
  - WinnerResponse: round, winner
  - ParticipationResponse: voter_id, delegations
  - ErrorResponse: error, message

# Domain Types

  - Election: lifecycle state, current round and running totals
  - Candidate: id, name and cumulative vote count
  - Voter: registry flags, delegate, last choice and delegation count
  - Ballot: one voter's choice in one round
  - Tally: candidate vote count as reported for a round

Optional values (delegate, chosen candidate, start and end time) are pointers;
nil means unset.

# Constants

Status values:

	StatusNotStarted = "not_started"
	StatusActive     = "active"
	StatusEnded      = "ended"
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct holding the election machine; the admin and voting
handlers also hold the config for access key checks:

  - AdminHandler: Voter registry, candidate catalog, lifecycle
  - VotingHandler: Delegation and ballot casting
  - ResultsHandler: Election status, tallies, winners, participation

Handlers are created via constructor functions:

	adminHandler := handlers.NewAdminHandler(machine, cfg)

# Authentication

Callers identify themselves with two headers:

	X-Caller-ID:  alice
	X-Access-Key: <key returned when alice was registered>

The access key is an HMAC of the identity keyed by ACCESS_KEY_SALT. The
administrator's key is derived the same way from ADMIN_ID. A missing or
mismatched key is rejected with 401 before the election is consulted.

# Election Lifecycle

Elections progress through three states: not_started → active → ended

	POST /voters            → RegisterVoter (returns access_key)
	DELETE /voters/{id}     → UnregisterVoter
	POST /candidates        → AddCandidate
	POST /election/start    → StartElection (opens round 1)
	POST /election/rounds   → AdvanceRound (after the deadline)
	POST /election/end      → EndElection (after the deadline)

Registry and catalog changes are only accepted before the start.

# Voting Flow

	POST /delegations → Delegate
	POST /votes       → CastVote (one ballot per voter per round)

# Results

	GET /election                     → GetElection (with time remaining)
	GET /rounds/{round}/results       → GetResults
	GET /rounds/{round}/winner        → GetWinner
	GET /voters/{id}/participation    → GetParticipation

# Error Mapping

Election errors map to status codes in errors.go: caller problems are 400,
401 or 403, unknown rounds and empty results are 404, and lifecycle
conflicts are 409. Anything else is logged and reported as 500.
*/
package handlers

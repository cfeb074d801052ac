// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(machine, cfg)

# Endpoints

Health:

	GET /health

Registry and catalog (admin, requires X-Caller-ID and X-Access-Key):

	POST   /voters      - Register voter, returns access key
	GET    /voters      - List voter records
	DELETE /voters/{id} - Unregister voter
	POST   /candidates  - Add candidate

Lifecycle (admin):

	POST /election/start  - Open round 1
	POST /election/rounds - Close the round and open the next
	POST /election/end    - Close the election

Voting (registered voters):

	POST /delegations - Delegate to another voter
	POST /votes       - Cast a ballot in the current round

Queries (public):

	GET /election                  - Status and time remaining
	GET /candidates                - Candidate catalog
	GET /rounds/{round}/results    - Tallies as of a round
	GET /rounds/{round}/winner     - Leader of a round
	GET /voters/{id}/participation - Delegation count

# Handler Initialization

The router creates handler instances with dependency injection:

	adminHandler := handlers.NewAdminHandler(machine, cfg)
	votingHandler := handlers.NewVotingHandler(machine, cfg)
	resultsHandler := handlers.NewResultsHandler(machine)

All handlers share one election.Machine, which serializes state changes.
*/
package router

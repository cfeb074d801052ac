// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(machine *election.Machine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(machine, cfg)
	votingHandler := handlers.NewVotingHandler(machine, cfg)
	resultsHandler := handlers.NewResultsHandler(machine)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registry and catalog (admin operations)
	mux.HandleFunc("POST /voters", middleware.WithLogging(adminHandler.RegisterVoter))
	mux.HandleFunc("GET /voters", middleware.WithLogging(adminHandler.ListVoters))
	mux.HandleFunc("DELETE /voters/{id}", middleware.WithLogging(adminHandler.UnregisterVoter))
	mux.HandleFunc("POST /candidates", middleware.WithLogging(adminHandler.AddCandidate))

	// Lifecycle (admin operations)
	mux.HandleFunc("POST /election/start", middleware.WithLogging(adminHandler.StartElection))
	mux.HandleFunc("POST /election/rounds", middleware.WithLogging(adminHandler.AdvanceRound))
	mux.HandleFunc("POST /election/end", middleware.WithLogging(adminHandler.EndElection))

	// Voting operations (registered voters)
	mux.HandleFunc("POST /delegations", middleware.WithLogging(votingHandler.Delegate))
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))

	// Queries (public)
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetElection))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(resultsHandler.ListCandidates))
	mux.HandleFunc("GET /rounds/{round}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /rounds/{round}/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /voters/{id}/participation", middleware.WithLogging(resultsHandler.GetParticipation))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}

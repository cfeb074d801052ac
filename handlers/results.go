// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// ResultsHandler serves the public read-only routes, so it needs no config
type ResultsHandler struct {
	machine *election.Machine
}

func NewResultsHandler(machine *election.Machine) *ResultsHandler {
	return &ResultsHandler{machine: machine}
}

// GetElection handles GET /election
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, remaining, err := h.machine.StatusWithRemaining(r.Context())
	if err != nil {
		writeElectionError(w, "get_election", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionStatusResponse{
		Election:             e,
		TimeRemainingSeconds: int64(remaining / time.Second),
		TimeRemaining:        describeRemaining(remaining),
	})
}

// describeRemaining renders a window length as e.g. "2 minutes remaining"
func describeRemaining(d time.Duration) string {
	if d <= 0 {
		return "closed"
	}
	var zero time.Time
	return humanize.RelTime(zero, zero.Add(d), "remaining", "")
}

// ListCandidates handles GET /candidates
func (h *ResultsHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.machine.Candidates(r.Context())
	if err != nil {
		writeElectionError(w, "list_candidates", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// GetResults handles GET /rounds/{round}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	round, ok := parseRound(w, r)
	if !ok {
		return
	}

	tallies, err := h.machine.Results(r.Context(), round)
	if err != nil {
		writeElectionError(w, "get_results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Round:   round,
		Tallies: tallies,
	})
}

// GetWinner handles GET /rounds/{round}/winner
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	round, ok := parseRound(w, r)
	if !ok {
		return
	}

	winner, err := h.machine.Winner(r.Context(), round)
	if err != nil {
		writeElectionError(w, "get_winner", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		Round:  round,
		Winner: winner,
	})
}

// GetParticipation handles GET /voters/{id}/participation
func (h *ResultsHandler) GetParticipation(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	count, err := h.machine.VoterParticipation(r.Context(), voterID)
	if err != nil {
		writeElectionError(w, "get_participation", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipationResponse{
		VoterID:     voterID,
		Delegations: count,
	})
}

func parseRound(w http.ResponseWriter, r *http.Request) (int, bool) {
	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round must be an integer")
		return 0, false
	}
	return round, true
}

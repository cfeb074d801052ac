// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VotingHandler struct {
	machine *election.Machine
	cfg     cliparse.Config
}

func NewVotingHandler(machine *election.Machine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{machine: machine, cfg: cfg}
}

// Delegate handles POST /delegations
func (h *VotingHandler) Delegate(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.DelegateVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "to is required")
		return
	}

	voter, err := h.machine.DelegateVote(r.Context(), caller, to)
	if err != nil {
		writeElectionError(w, "delegate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// CastVote handles POST /votes
// An explicit round must match the current one; omitting it votes in the
// current round.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		ballot models.Ballot
		err    error
	)
	if req.Round != nil {
		ballot, err = h.machine.VoteInRound(r.Context(), caller, req.CandidateID, *req.Round)
	} else {
		ballot, err = h.machine.Vote(r.Context(), caller, req.CandidateID)
	}
	if err != nil {
		writeElectionError(w, "vote", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Round:       ballot.Round,
		CandidateID: ballot.CandidateID,
		Message:     "Vote recorded",
	})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

const maxDurationSeconds = int64(election.MaxDuration / time.Second)

type AdminHandler struct {
	machine *election.Machine
	cfg     cliparse.Config
}

func NewAdminHandler(machine *election.Machine, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{machine: machine, cfg: cfg}
}

// RegisterVoter handles POST /voters
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voterID := strings.TrimSpace(req.VoterID)
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	voter, err := h.machine.RegisterVoter(r.Context(), caller, voterID)
	if err != nil {
		writeElectionError(w, "register_voter", err)
		return
	}

	// The access key is only ever handed out here
	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterID:   voter.ID,
		AccessKey: auth.GenerateAccessKey(voter.ID, h.cfg.AccessKeySalt),
	})
}

// UnregisterVoter handles DELETE /voters/{id}
func (h *AdminHandler) UnregisterVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	if err := h.machine.UnregisterVoter(r.Context(), caller, voterID); err != nil {
		writeElectionError(w, "unregister_voter", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListVoters handles GET /voters
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	voters, err := h.machine.Voters(r.Context(), caller)
	if err != nil {
		writeElectionError(w, "list_voters", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// AddCandidate handles POST /candidates
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	candidate, err := h.machine.AddCandidate(r.Context(), caller, req.Name)
	if err != nil {
		writeElectionError(w, "add_candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// StartElection handles POST /election/start
func (h *AdminHandler) StartElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.StartElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DurationSeconds <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds must be positive")
		return
	}
	// Checked before converting so the multiplication cannot wrap
	if req.DurationSeconds > maxDurationSeconds {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds is too large")
		return
	}

	e, err := h.machine.StartElection(r.Context(), caller, time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		writeElectionError(w, "start_election", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// EndElection handles POST /election/end
func (h *AdminHandler) EndElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	e, err := h.machine.EndElection(r.Context(), caller)
	if err != nil {
		writeElectionError(w, "end_election", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// AdvanceRound handles POST /election/rounds
func (h *AdminHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.cfg)
	if !ok {
		return
	}

	e, err := h.machine.AdvanceRound(r.Context(), caller)
	if err != nil {
		writeElectionError(w, "advance_round", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

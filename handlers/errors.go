// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
)

// authenticate resolves the caller from the X-Caller-ID and X-Access-Key
// headers. On failure it writes a 401 and returns ok=false.
func authenticate(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	caller, err := auth.Authenticate(
		r.Header.Get("X-Caller-ID"),
		r.Header.Get("X-Access-Key"),
		cfg.AccessKeySalt,
	)
	if errors.Is(err, auth.ErrMissingIdentity) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Caller-ID header is required")
		return "", false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access key")
		return "", false
	}
	return caller, true
}

// statusFor maps an election error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, election.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, election.ErrNotRegistered):
		return http.StatusForbidden
	case errors.Is(err, election.ErrInvalidCandidate),
		errors.Is(err, election.ErrInvalidDuration),
		errors.Is(err, election.ErrInvalidIdentity),
		errors.Is(err, election.ErrInvalidCandidateName),
		errors.Is(err, election.ErrSelfDelegation),
		errors.Is(err, election.ErrWrongRound):
		return http.StatusBadRequest
	case errors.Is(err, election.ErrFutureRound),
		errors.Is(err, election.ErrNoVotesCast):
		return http.StatusNotFound
	case errors.Is(err, election.ErrAlreadyRegistered),
		errors.Is(err, election.ErrElectionNotActive),
		errors.Is(err, election.ErrElectionAlreadyActive),
		errors.Is(err, election.ErrElectionNotEnded),
		errors.Is(err, election.ErrElectionHasEnded),
		errors.Is(err, election.ErrAlreadyVotedThisRound),
		errors.Is(err, election.ErrAlreadyVoted),
		errors.Is(err, election.ErrDelegateNotRegistered),
		errors.Is(err, election.ErrDelegationLoopDetected),
		errors.Is(err, election.ErrHasDelegated),
		errors.Is(err, election.ErrNoCandidates):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeElectionError reports err to the client. Unmapped errors are logged
// and hidden behind a generic message.
func writeElectionError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("election operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

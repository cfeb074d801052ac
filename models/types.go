package models

import "time"

// Election status constants
const (
	StatusNotStarted = "not_started"
	StatusActive     = "active"
	StatusEnded      = "ended"
)

// Request types

type RegisterVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type StartElectionRequest struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

type DelegateVoteRequest struct {
	To string `json:"to"`
}

// Round is optional; when set the ballot is only accepted for that round.
type CastVoteRequest struct {
	CandidateID int64 `json:"candidate_id"`
	Round       *int  `json:"round,omitempty"`
}

// Response types

type RegisterVoterResponse struct {
	VoterID   string `json:"voter_id"`
	AccessKey string `json:"access_key"`
}

type CastVoteResponse struct {
	Round       int    `json:"round"`
	CandidateID int64  `json:"candidate_id"`
	Message     string `json:"message"`
}

type ElectionStatusResponse struct {
	Election             Election `json:"election"`
	TimeRemainingSeconds int64    `json:"time_remaining_seconds"`
	TimeRemaining        string   `json:"time_remaining"`
}

type ResultsResponse struct {
	Round   int     `json:"round"`
	Tallies []Tally `json:"tallies"`
}

type WinnerResponse struct {
	Round  int   `json:"round"`
	Winner Tally `json:"winner"`
}

type ParticipationResponse struct {
	VoterID     string `json:"voter_id"`
	Delegations int64  `json:"delegations"`
}

// Domain types

type Election struct {
	Status          string        `json:"status"`
	StartTime       *time.Time    `json:"start_time,omitempty"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	CurrentRound    int           `json:"current_round"`
	RoundDuration   time.Duration `json:"round_duration"`
	TotalVoters     int64         `json:"total_voters"`
	TotalCandidates int64         `json:"total_candidates"`
	TotalVotes      int64         `json:"total_votes"`
}

type Candidate struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	VoteCount int64  `json:"vote_count"`
}

type Voter struct {
	ID              string  `json:"id"`
	Registered      bool    `json:"registered"`
	HasVoted        bool    `json:"has_voted"`
	DelegateTo      *string `json:"delegate_to,omitempty"`
	ChosenCandidate *int64  `json:"chosen_candidate,omitempty"`
	Delegations     int64   `json:"delegations"`
}

// Ballot is one voter's choice in one round.
type Ballot struct {
	Round       int       `json:"round"`
	VoterID     string    `json:"voter_id"`
	CandidateID int64     `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// Tally is a candidate's cumulative vote count as of some round.
type Tally struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int64  `json:"vote_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

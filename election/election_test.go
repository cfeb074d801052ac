// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

const admin = testutil.TestAdminID

// setupElection registers voters, adds candidates and starts a 100s election.
func setupElection(t *testing.T, voters []string, candidates []string) (*election.Machine, *testutil.Clock) {
	t.Helper()
	ctx := context.Background()
	m, clock := testutil.NewTestMachine(t)

	for _, v := range voters {
		_, err := m.RegisterVoter(ctx, admin, v)
		require.NoError(t, err)
	}
	for _, c := range candidates {
		_, err := m.AddCandidate(ctx, admin, c)
		require.NoError(t, err)
	}
	_, err := m.StartElection(ctx, admin, 100*time.Second)
	require.NoError(t, err)
	return m, clock
}

func counts(t *testing.T, m *election.Machine, round int) []int64 {
	t.Helper()
	tallies, err := m.Results(context.Background(), round)
	require.NoError(t, err)
	out := make([]int64, len(tallies))
	for i, tally := range tallies {
		out[i] = tally.VoteCount
	}
	return out
}

func TestNewRequiresAdmin(t *testing.T) {
	_, err := election.New(nil, "  ", nil, nil)
	require.ErrorIs(t, err, election.ErrInvalidIdentity)
}

func TestAdministratorOnlyOperations(t *testing.T) {
	ctx := context.Background()
	m, _ := testutil.NewTestMachine(t)

	_, err := m.RegisterVoter(ctx, "mallory", "v1")
	assert.ErrorIs(t, err, election.ErrUnauthorized)
	assert.ErrorIs(t, m.UnregisterVoter(ctx, "mallory", "v1"), election.ErrUnauthorized)
	_, err = m.AddCandidate(ctx, "mallory", "Alice")
	assert.ErrorIs(t, err, election.ErrUnauthorized)
	_, err = m.StartElection(ctx, "mallory", time.Minute)
	assert.ErrorIs(t, err, election.ErrUnauthorized)
	_, err = m.EndElection(ctx, "mallory")
	assert.ErrorIs(t, err, election.ErrUnauthorized)
	_, err = m.AdvanceRound(ctx, "mallory")
	assert.ErrorIs(t, err, election.ErrUnauthorized)
	_, err = m.Voters(ctx, "mallory")
	assert.ErrorIs(t, err, election.ErrUnauthorized)
}

func TestRegisterUnregisterRestoresTotal(t *testing.T) {
	ctx := context.Background()
	m, _ := testutil.NewTestMachine(t)

	_, err := m.RegisterVoter(ctx, admin, "v0")
	require.NoError(t, err)
	before, err := m.Status(ctx)
	require.NoError(t, err)

	_, err = m.RegisterVoter(ctx, admin, "v1")
	require.NoError(t, err)
	_, err = m.RegisterVoter(ctx, admin, "v1")
	require.ErrorIs(t, err, election.ErrAlreadyRegistered)

	require.NoError(t, m.UnregisterVoter(ctx, admin, "v1"))
	after, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.TotalVoters, after.TotalVoters)

	require.ErrorIs(t, m.UnregisterVoter(ctx, admin, "v1"), election.ErrNotRegistered)

	registered, err := m.IsRegistered(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, registered)

	// Re-registration is allowed after removal
	_, err = m.RegisterVoter(ctx, admin, "v1")
	require.NoError(t, err)
}

func TestRegisterVoterRejectsEmptyIdentity(t *testing.T) {
	m, _ := testutil.NewTestMachine(t)
	_, err := m.RegisterVoter(context.Background(), admin, " ")
	require.ErrorIs(t, err, election.ErrInvalidIdentity)
}

func TestCandidatesAreSequential(t *testing.T) {
	ctx := context.Background()
	m, _ := testutil.NewTestMachine(t)

	for i, name := range []string{"Alice", "Bob", "Alice"} {
		c, err := m.AddCandidate(ctx, admin, name)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), c.ID)
		assert.Zero(t, c.VoteCount)
	}

	candidates, err := m.Candidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "Bob", candidates[1].Name)

	_, err = m.AddCandidate(ctx, admin, "")
	require.ErrorIs(t, err, election.ErrInvalidCandidateName)
}

func TestStartElectionGuards(t *testing.T) {
	ctx := context.Background()
	m, clock := testutil.NewTestMachine(t)

	_, err := m.StartElection(ctx, admin, time.Minute)
	require.ErrorIs(t, err, election.ErrNoCandidates)

	_, err = m.AddCandidate(ctx, admin, "Alice")
	require.NoError(t, err)

	for _, d := range []time.Duration{0, -time.Second, election.MaxDuration + time.Nanosecond} {
		_, err = m.StartElection(ctx, admin, d)
		require.ErrorIs(t, err, election.ErrInvalidDuration, "duration %v", d)
	}

	e, err := m.StartElection(ctx, admin, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, e.Status)
	assert.Equal(t, 1, e.CurrentRound)
	require.NotNil(t, e.StartTime)
	require.NotNil(t, e.EndTime)
	assert.True(t, e.EndTime.After(*e.StartTime))
	assert.Equal(t, clock.Now().Add(time.Minute), *e.EndTime)

	_, err = m.StartElection(ctx, admin, time.Minute)
	require.ErrorIs(t, err, election.ErrElectionAlreadyActive)
}

func TestConfigurationLockedOnceActive(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"v1"}, []string{"Alice"})

	_, err := m.AddCandidate(ctx, admin, "Bob")
	assert.ErrorIs(t, err, election.ErrElectionAlreadyActive)
	_, err = m.RegisterVoter(ctx, admin, "v2")
	assert.ErrorIs(t, err, election.ErrElectionAlreadyActive)
	assert.ErrorIs(t, m.UnregisterVoter(ctx, admin, "v1"), election.ErrElectionAlreadyActive)
	_, err = m.StartElection(ctx, admin, time.Minute)
	assert.ErrorIs(t, err, election.ErrElectionAlreadyActive)
}

func TestVotingClosedBeforeStart(t *testing.T) {
	ctx := context.Background()
	m, _ := testutil.NewTestMachine(t)

	_, err := m.RegisterVoter(ctx, admin, "v1")
	require.NoError(t, err)
	_, err = m.RegisterVoter(ctx, admin, "v2")
	require.NoError(t, err)
	_, err = m.AddCandidate(ctx, admin, "Alice")
	require.NoError(t, err)

	_, err = m.Vote(ctx, "v1", 1)
	assert.ErrorIs(t, err, election.ErrElectionNotActive)
	_, err = m.DelegateVote(ctx, "v1", "v2")
	assert.ErrorIs(t, err, election.ErrElectionNotActive)
}

// Scenario A
func TestVoteTalliesAndTieBreak(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2"}, []string{"Alice", "Bob"})

	round, err := m.CurrentRound(ctx)
	require.NoError(t, err)

	_, err = m.Vote(ctx, "V1", 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0}, counts(t, m, round))

	_, err = m.Vote(ctx, "V2", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1}, counts(t, m, round))

	winner, err := m.Winner(ctx, round)
	require.NoError(t, err)
	assert.Equal(t, "Alice", winner.Name)
	assert.Equal(t, int64(1), winner.CandidateID)

	e, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.TotalVotes)

	v1, err := m.Voter(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, v1.HasVoted)
	require.NotNil(t, v1.ChosenCandidate)
	assert.Equal(t, int64(1), *v1.ChosenCandidate)
}

func TestWinnerStrictMaximum(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2", "V3"}, []string{"Alice", "Bob", "Carol"})

	_, err := m.Vote(ctx, "V1", 3)
	require.NoError(t, err)
	_, err = m.Vote(ctx, "V2", 2)
	require.NoError(t, err)
	_, err = m.Vote(ctx, "V3", 3)
	require.NoError(t, err)

	winner, err := m.Winner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Carol", winner.Name)
	assert.Equal(t, int64(2), winner.VoteCount)
}

func TestWinnerWithoutVotes(t *testing.T) {
	m, _ := setupElection(t, []string{"V1"}, []string{"Alice"})
	_, err := m.Winner(context.Background(), 1)
	require.ErrorIs(t, err, election.ErrNoVotesCast)
}

func TestVoteGuards(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2"}, []string{"Alice", "Bob"})

	_, err := m.Vote(ctx, "stranger", 1)
	assert.ErrorIs(t, err, election.ErrNotRegistered)

	for _, id := range []int64{0, 3, -1} {
		_, err = m.Vote(ctx, "V1", id)
		assert.ErrorIs(t, err, election.ErrInvalidCandidate)
	}

	_, err = m.Vote(ctx, "V1", 1)
	require.NoError(t, err)
	_, err = m.Vote(ctx, "V1", 2)
	assert.ErrorIs(t, err, election.ErrAlreadyVotedThisRound)

	// The rejected ballot left nothing behind
	assert.Equal(t, []int64{1, 0}, counts(t, m, 1))
}

func TestDeadlineBoundary(t *testing.T) {
	ctx := context.Background()
	m, clock := setupElection(t, []string{"V1"}, []string{"Alice"})

	// At exactly endTime a ballot is accepted and the election may also end
	clock.Advance(100 * time.Second)
	_, err := m.Vote(ctx, "V1", 1)
	require.NoError(t, err)
	_, err = m.EndElection(ctx, admin)
	require.NoError(t, err)
}

func TestVoteAfterDeadline(t *testing.T) {
	ctx := context.Background()
	m, clock := setupElection(t, []string{"V1", "V2"}, []string{"Alice"})

	clock.Advance(100 * time.Second)
	_, err := m.Vote(ctx, "V1", 1)
	require.NoError(t, err, "deadline itself is still inside the window")

	clock.Advance(time.Second)
	_, err = m.Vote(ctx, "V2", 1)
	assert.ErrorIs(t, err, election.ErrElectionHasEnded)
}

func TestVoteInRound(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1"}, []string{"Alice"})

	_, err := m.VoteInRound(ctx, "V1", 1, 2)
	require.ErrorIs(t, err, election.ErrWrongRound)

	ballot, err := m.VoteInRound(ctx, "V1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, ballot.Round)
}

// Scenario B
func TestDelegationThenDelegateVotes(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2"}, []string{"Alice", "Bob"})

	v1, err := m.DelegateVote(ctx, "V1", "V2")
	require.NoError(t, err)
	require.NotNil(t, v1.DelegateTo)
	assert.Equal(t, "V2", *v1.DelegateTo)

	_, err = m.Vote(ctx, "V2", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, counts(t, m, 1))

	participation, err := m.VoterParticipation(ctx, "V1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), participation)

	participation, err = m.VoterParticipation(ctx, "V2")
	require.NoError(t, err)
	assert.Zero(t, participation)
}

func TestVoteExclusivity(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2", "V3"}, []string{"Alice"})

	_, err := m.DelegateVote(ctx, "V1", "V2")
	require.NoError(t, err)
	_, err = m.Vote(ctx, "V1", 1)
	assert.ErrorIs(t, err, election.ErrHasDelegated)
	_, err = m.DelegateVote(ctx, "V1", "V3")
	assert.ErrorIs(t, err, election.ErrHasDelegated)

	_, err = m.Vote(ctx, "V3", 1)
	require.NoError(t, err)
	_, err = m.DelegateVote(ctx, "V3", "V2")
	assert.ErrorIs(t, err, election.ErrAlreadyVoted)
}

func TestDelegationGuards(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1", "V2"}, []string{"Alice"})

	_, err := m.DelegateVote(ctx, "V1", "V1")
	assert.ErrorIs(t, err, election.ErrSelfDelegation)
	_, err = m.DelegateVote(ctx, "V1", "stranger")
	assert.ErrorIs(t, err, election.ErrDelegateNotRegistered)
	_, err = m.DelegateVote(ctx, "stranger", "V1")
	assert.ErrorIs(t, err, election.ErrNotRegistered)
}

// Scenario C
func TestDelegationTwoCycleRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"A", "B"}, []string{"Alice"})

	_, err := m.DelegateVote(ctx, "A", "B")
	require.NoError(t, err)

	_, err = m.DelegateVote(ctx, "B", "A")
	require.ErrorIs(t, err, election.ErrDelegationLoopDetected)

	b, err := m.Voter(ctx, "B")
	require.NoError(t, err)
	assert.Nil(t, b.DelegateTo)
	assert.Zero(t, b.Delegations)
}

func TestDelegationChainCycleRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"A", "B", "C", "D"}, []string{"Alice"})

	_, err := m.DelegateVote(ctx, "A", "B")
	require.NoError(t, err)
	_, err = m.DelegateVote(ctx, "B", "C")
	require.NoError(t, err)

	_, err = m.DelegateVote(ctx, "C", "A")
	require.ErrorIs(t, err, election.ErrDelegationLoopDetected)

	c, err := m.Voter(ctx, "C")
	require.NoError(t, err)
	assert.Nil(t, c.DelegateTo)

	// Extending the chain away from the cycle is fine
	_, err = m.DelegateVote(ctx, "C", "D")
	require.NoError(t, err)
}

func TestDelegationChainBoundFailsClosed(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	store := db.NewStore(conn)

	m, err := election.New(store, admin, testutil.NewClock(), testutil.QuietLogger())
	require.NoError(t, err)
	for _, v := range []string{"A", "B"} {
		_, err := m.RegisterVoter(ctx, admin, v)
		require.NoError(t, err)
	}
	_, err = m.AddCandidate(ctx, admin, "Alice")
	require.NoError(t, err)
	_, err = m.StartElection(ctx, admin, time.Minute)
	require.NoError(t, err)

	// B -> X1 -> X2 -> X3 is longer than the two registered voters allow
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	links := [][2]string{{"B", "X1"}, {"X1", "X2"}, {"X2", "X3"}}
	for _, link := range links {
		to := link[1]
		require.NoError(t, tx.SaveVoter(ctx, models.Voter{ID: link[0], Registered: true, DelegateTo: &to}))
	}
	require.NoError(t, tx.Commit())

	_, err = m.DelegateVote(ctx, "A", "B")
	require.ErrorIs(t, err, election.ErrDelegationLoopDetected)

	a, err := m.Voter(ctx, "A")
	require.NoError(t, err)
	assert.Nil(t, a.DelegateTo)
	assert.Zero(t, a.Delegations)
}

// Scenario D
func TestFutureRoundRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := setupElection(t, []string{"V1"}, []string{"Alice"})

	_, err := m.Results(ctx, 2)
	require.ErrorIs(t, err, election.ErrFutureRound)
	_, err = m.Winner(ctx, 2)
	require.ErrorIs(t, err, election.ErrFutureRound)
	_, err = m.Results(ctx, 0)
	require.ErrorIs(t, err, election.ErrWrongRound)
}

func TestEndElection(t *testing.T) {
	ctx := context.Background()
	m, clock := setupElection(t, []string{"V1"}, []string{"Alice"})

	_, err := m.Vote(ctx, "V1", 1)
	require.NoError(t, err)

	_, err = m.EndElection(ctx, admin)
	require.ErrorIs(t, err, election.ErrElectionNotEnded)

	clock.Advance(100 * time.Second)
	e, err := m.EndElection(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnded, e.Status)

	_, err = m.EndElection(ctx, admin)
	assert.ErrorIs(t, err, election.ErrElectionNotActive)
	_, err = m.Vote(ctx, "V1", 1)
	assert.ErrorIs(t, err, election.ErrElectionHasEnded)
	_, err = m.AddCandidate(ctx, admin, "Bob")
	assert.ErrorIs(t, err, election.ErrElectionHasEnded)
	_, err = m.AdvanceRound(ctx, admin)
	assert.ErrorIs(t, err, election.ErrElectionNotActive)

	// Results stay queryable
	assert.Equal(t, []int64{1}, counts(t, m, 1))
	winner, err := m.Winner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", winner.Name)
}

func TestEndElectionBeforeStart(t *testing.T) {
	m, _ := testutil.NewTestMachine(t)
	_, err := m.EndElection(context.Background(), admin)
	require.ErrorIs(t, err, election.ErrElectionNotActive)
}

func TestAdvanceRoundReopensVoting(t *testing.T) {
	ctx := context.Background()
	m, clock := setupElection(t, []string{"V1", "V2"}, []string{"Alice", "Bob"})

	_, err := m.Vote(ctx, "V1", 1)
	require.NoError(t, err)

	_, err = m.AdvanceRound(ctx, admin)
	require.ErrorIs(t, err, election.ErrElectionNotEnded)

	// Exactly at the deadline is not yet past it
	clock.Advance(100 * time.Second)
	_, err = m.AdvanceRound(ctx, admin)
	require.ErrorIs(t, err, election.ErrElectionNotEnded)

	clock.Advance(time.Second)
	e, err := m.AdvanceRound(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CurrentRound)
	assert.Equal(t, models.StatusActive, e.Status)

	remaining, err := m.TimeRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Second, remaining)

	// Every voter may vote again in the new round
	_, err = m.Vote(ctx, "V1", 2)
	require.NoError(t, err)
	_, err = m.Vote(ctx, "V2", 2)
	require.NoError(t, err)
	_, err = m.VoteInRound(ctx, "V2", 2, 1)
	require.ErrorIs(t, err, election.ErrWrongRound)

	// Round 1 keeps the tally it closed with; round 2 is cumulative
	assert.Equal(t, []int64{1, 0}, counts(t, m, 1))
	assert.Equal(t, []int64{1, 2}, counts(t, m, 2))

	w1, err := m.Winner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", w1.Name)
	w2, err := m.Winner(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", w2.Name)
}

func TestTallyMonotonicity(t *testing.T) {
	ctx := context.Background()
	voters := []string{"V1", "V2", "V3", "V4"}
	m, clock := setupElection(t, voters, []string{"Alice", "Bob"})

	var lastTotal int64
	last := []int64{0, 0}
	check := func(round int) {
		current := counts(t, m, round)
		for i := range current {
			assert.GreaterOrEqual(t, current[i], last[i])
		}
		last = current
		e, err := m.Status(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.TotalVotes, lastTotal)
		lastTotal = e.TotalVotes
	}

	for round := 1; round <= 3; round++ {
		for i, v := range voters {
			_, _ = m.Vote(ctx, v, int64(i%2+1))
			_, _ = m.Vote(ctx, v, 1) // rejected duplicate
			check(round)
		}
		clock.Advance(101 * time.Second)
		_, err := m.AdvanceRound(ctx, admin)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(12), lastTotal)
}

func TestTimeRemaining(t *testing.T) {
	ctx := context.Background()
	m, clock := testutil.NewTestMachine(t)

	remaining, err := m.TimeRemaining(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	_, err = m.AddCandidate(ctx, admin, "Alice")
	require.NoError(t, err)
	_, err = m.StartElection(ctx, admin, time.Minute)
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	remaining, err = m.TimeRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, remaining)

	clock.Advance(time.Hour)
	remaining, err = m.TimeRemaining(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestStatusWithRemainingAfterAdvance(t *testing.T) {
	ctx := context.Background()
	m, clock := setupElection(t, []string{"V1"}, []string{"Alice"})

	clock.Advance(101 * time.Second)
	e, remaining, err := m.StatusWithRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentRound)
	assert.Zero(t, remaining)

	_, err = m.AdvanceRound(ctx, admin)
	require.NoError(t, err)

	e, remaining, err = m.StatusWithRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CurrentRound)
	assert.Equal(t, 100*time.Second, remaining)
	assert.Equal(t, e.EndTime.Sub(clock.Now()), remaining)
}

func TestParticipationUnknownVoter(t *testing.T) {
	m, _ := testutil.NewTestMachine(t)
	count, err := m.VoterParticipation(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Zero(t, count)
}

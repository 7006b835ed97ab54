package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"univote/internal/ballot/models"
	"univote/internal/ballot/service/mocks"
	electionmodels "univote/internal/election/models"
	"univote/internal/platform/metrics"
	votermodels "univote/internal/voter/models"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/requestcontext"
)

var (
	electionStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	electionEnd   = electionStart.Add(48 * time.Hour)
	duringVoting  = electionStart.Add(2 * time.Hour)
)

type fixture struct {
	ctrl        *gomock.Controller
	elections   *mocks.MockElectionStore
	profiles    *mocks.MockProfileStore
	ledger      *mocks.MockLedger
	publisher   *mocks.MockEventPublisher
	invalidator *mocks.MockTallyInvalidator
	service     *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:        ctrl,
		elections:   mocks.NewMockElectionStore(ctrl),
		profiles:    mocks.NewMockProfileStore(ctrl),
		ledger:      mocks.NewMockLedger(ctrl),
		publisher:   mocks.NewMockEventPublisher(ctrl),
		invalidator: mocks.NewMockTallyInvalidator(ctrl),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = New(f.elections, f.profiles, f.ledger, f.publisher, f.invalidator, metrics.NewForTesting(), logger)
	return f
}

func testElection() *electionmodels.Election {
	return &electionmodels.Election{
		ID:                 id.NewElectionID(),
		Title:              "Student Council 2026",
		StartDate:          electionStart,
		EndDate:            electionEnd,
		RestrictVoting:     true,
		Colleges:           []string{"Engineering"},
		EligibleYearLevels: []string{electionmodels.YearLevelAll},
		Positions:          []string{"President", "Secretary"},
	}
}

func testProfile(userID id.UserID) *votermodels.VoterProfile {
	return &votermodels.VoterProfile{
		UserID:     userID,
		Department: "Engineering",
		YearLevel:  "3rd Year",
		CanVote:    true,
	}
}

func testCandidates(election *electionmodels.Election) (id.CandidateID, []*electionmodels.Candidate) {
	alice := id.NewCandidateID()
	bob := id.NewCandidateID()
	return alice, []*electionmodels.Candidate{
		{ID: alice, ElectionID: election.ID, Position: "President", Name: "Alice"},
		{ID: bob, ElectionID: election.ID, Position: "President", Name: "Bob"},
	}
}

func voterContext(now time.Time, userID id.UserID) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID)
	ctx = requestcontext.WithVoter(ctx, true)
	return requestcontext.WithTime(ctx, now)
}

func TestSubmit_RecordsCompleteBallot(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, candidates := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)
	f.ledger.EXPECT().HasVoted(gomock.Any(), election.ID, voterID).Return(false, nil)

	var inserted []*models.Entry
	f.ledger.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []*models.Entry) error {
			inserted = entries
			return nil
		})
	f.invalidator.EXPECT().Invalidate(gomock.Any(), election.ID).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	receipt, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	// One entry per position, laid out in the election's position order.
	require.Len(t, inserted, 2)
	assert.Equal(t, "President", inserted[0].Position)
	require.NotNil(t, inserted[0].CandidateID)
	assert.Equal(t, alice, *inserted[0].CandidateID)
	assert.Equal(t, "Secretary", inserted[1].Position)
	assert.Nil(t, inserted[1].CandidateID)
	assert.Equal(t, inserted[0].BallotID, inserted[1].BallotID)

	require.NotNil(t, receipt.FirstChoice)
	assert.Equal(t, alice, *receipt.FirstChoice)
	assert.Equal(t, duringVoting, receipt.SubmittedAt)
}

func TestSubmit_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	ctx := requestcontext.WithTime(context.Background(), duringVoting)

	_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: id.NewElectionID()})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSubmit_ElectionNotFound(t *testing.T) {
	f := newFixture(t)
	electionID := id.NewElectionID()
	ctx := voterContext(duringVoting, id.NewUserID())

	f.elections.EXPECT().GetElection(gomock.Any(), electionID).Return(nil, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: electionID})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSubmit_RejectsWithoutVotingCapability(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(nil, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: election.ID})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestSubmit_RejectsIneligibleVoter(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	profile := testProfile(voterID)
	profile.Department = "Law"
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(profile, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: election.ID})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	details := dErrors.DetailsOf(err)
	require.NotNil(t, details)
	assert.Contains(t, details["reason"], "Law")
}

func TestSubmit_RejectsIncompleteBallot(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, _ := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{"President": models.Vote(alice)},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	details := dErrors.DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, []string{"Secretary"}, details["missing_positions"])
}

func TestSubmit_RejectsUnknownPosition(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, _ := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
			"Treasurer": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmit_RejectsUnregisteredCandidate(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	_, candidates := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(id.NewCandidateID()),
			"Secretary": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmit_RejectsOutsideVotingWindow(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, candidates := testCandidates(election)

	selections := map[string]models.Selection{
		"President": models.Vote(alice),
		"Secretary": models.Abstain(),
	}

	for name, now := range map[string]time.Time{
		"before start": electionStart.Add(-time.Minute),
		"at end":       electionEnd,
		"after end":    electionEnd.Add(time.Hour),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := voterContext(now, voterID)
			f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
			f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
			f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)

			_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: election.ID, Selections: selections})
			assert.True(t, dErrors.HasCode(err, dErrors.CodeStateConflict))
		})
	}
}

func TestSubmit_RejectsSecondBallot(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, candidates := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)
	f.ledger.EXPECT().HasVoted(gomock.Any(), election.ID, voterID).Return(true, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestSubmit_ConcurrentDuplicateLosesAtTheLedger(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, candidates := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)
	f.ledger.EXPECT().HasVoted(gomock.Any(), election.ID, voterID).Return(false, nil)
	f.ledger.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).
		Return(dErrors.New(dErrors.CodeConflict, "ballot entry already recorded"))

	// A conflict means the winner's ballot is in place; no compensation runs.
	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestSubmit_CompensatesPartialWrite(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	alice, candidates := testCandidates(election)
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(testProfile(voterID), nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)
	f.ledger.EXPECT().HasVoted(gomock.Any(), election.ID, voterID).Return(false, nil)
	f.ledger.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	f.ledger.EXPECT().DeleteVoterEntries(gomock.Any(), election.ID, voterID).Return(nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID: election.ID,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestSubmit_AdminOverrideSkipsEligibilityNotDoubleVote(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	adminID := id.NewUserID()
	alice, candidates := testCandidates(election)
	ctx := requestcontext.WithAdmin(voterContext(duringVoting, adminID), true)

	// No profile lookup: capability and eligibility are skipped entirely.
	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.elections.EXPECT().ListCandidates(gomock.Any(), election.ID).Return(candidates, nil)
	f.ledger.EXPECT().HasVoted(gomock.Any(), election.ID, adminID).Return(true, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{
		ElectionID:    election.ID,
		AdminOverride: true,
		Selections: map[string]models.Selection{
			"President": models.Vote(alice),
			"Secretary": models.Abstain(),
		},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestSubmit_OverrideFlagIgnoredWithoutAdminSession(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(nil, nil)

	_, err := f.service.Submit(ctx, SubmitRequest{ElectionID: election.ID, AdminOverride: true})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCheckEligibility_NoProfile(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	voterID := id.NewUserID()
	ctx := voterContext(duringVoting, voterID)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), voterID).Return(nil, nil)

	decision, err := f.service.CheckEligibility(ctx, election.ID)
	require.NoError(t, err)
	assert.False(t, decision.Eligible)
	assert.Contains(t, decision.Reason, "no voter profile")
}

func TestResetVotes_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := voterContext(duringVoting, id.NewUserID())

	_, err := f.service.ResetVotes(ctx, id.NewElectionID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestResetVotes_OnlyWhileActive(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	adminID := id.NewUserID()

	for name, now := range map[string]time.Time{
		"upcoming":  electionStart.Add(-time.Hour),
		"completed": electionEnd.Add(time.Hour),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := requestcontext.WithAdmin(voterContext(now, adminID), true)
			f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)

			_, err := f.service.ResetVotes(ctx, election.ID)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeStateConflict))
		})
	}
}

func TestResetVotes_DeletesAndNotifies(t *testing.T) {
	f := newFixture(t)
	election := testElection()
	adminID := id.NewUserID()
	ctx := requestcontext.WithAdmin(voterContext(duringVoting, adminID), true)

	f.elections.EXPECT().GetElection(gomock.Any(), election.ID).Return(election, nil)
	f.ledger.EXPECT().DeleteElectionEntries(gomock.Any(), election.ID).Return(int64(42), nil)
	f.invalidator.EXPECT().Invalidate(gomock.Any(), election.ID).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	deleted, err := f.service.ResetVotes(ctx, election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
}

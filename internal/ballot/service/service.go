// Package service coordinates ballot submission: it sequences the
// precondition checks, writes the ledger atomically and emits the
// post-commit notifications.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"univote/internal/ballot/models"
	electionmodels "univote/internal/election/models"
	"univote/internal/eligibility"
	"univote/internal/platform/events"
	"univote/internal/platform/metrics"
	votermodels "univote/internal/voter/models"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/requestcontext"
)

// Rejection reason labels for the ballots_rejected metric.
const (
	reasonUnauthenticated = "unauthenticated"
	reasonNotFound        = "election_not_found"
	reasonNoCapability    = "no_capability"
	reasonNotEligible     = "not_eligible"
	reasonIncomplete      = "incomplete_ballot"
	reasonInvalidChoice   = "invalid_candidate"
	reasonNotActive       = "election_not_active"
	reasonAlreadyVoted    = "already_voted"
	reasonStorage         = "storage_failure"
)

// ElectionStore reads election configuration and candidates.
type ElectionStore interface {
	GetElection(ctx context.Context, electionID id.ElectionID) (*electionmodels.Election, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*electionmodels.Candidate, error)
}

// ProfileStore reads voter profiles for capability and eligibility checks.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID id.UserID) (*votermodels.VoterProfile, error)
}

// Ledger is the append-only vote ledger. InsertEntries must be all-or-nothing
// where the backend allows it and must surface a conflict-coded error when any
// entry hits the per-(election, voter, position) uniqueness rule.
type Ledger interface {
	InsertEntries(ctx context.Context, entries []*models.Entry) error
	HasVoted(ctx context.Context, electionID id.ElectionID, voterID id.UserID) (bool, error)
	DeleteVoterEntries(ctx context.Context, electionID id.ElectionID, voterID id.UserID) error
	DeleteElectionEntries(ctx context.Context, electionID id.ElectionID) (int64, error)
}

// TallyInvalidator drops cached tallies after the ledger changes.
type TallyInvalidator interface {
	Invalidate(ctx context.Context, electionID id.ElectionID) error
}

// EventPublisher emits ballot lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, envelope events.Envelope) error
}

// SubmitRequest is one voter's complete ballot for one election.
type SubmitRequest struct {
	ElectionID id.ElectionID
	// Selections maps each contested position to a selection. A complete
	// ballot covers every position of the election, abstentions included.
	Selections map[string]models.Selection

	// AdminOverride skips the capability and eligibility checks. It is only
	// honored for sessions carrying the administrator capability and never
	// bypasses the double-vote guard.
	AdminOverride bool
}

// Service is the ballot coordinator.
type Service struct {
	elections   ElectionStore
	profiles    ProfileStore
	ledger      Ledger
	publisher   EventPublisher
	invalidator TallyInvalidator
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
}

// New constructs the ballot coordinator. publisher and invalidator may be nil
// when eventing or caching is disabled.
func New(
	elections ElectionStore,
	profiles ProfileStore,
	ledger Ledger,
	publisher EventPublisher,
	invalidator TallyInvalidator,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		elections:   elections,
		profiles:    profiles,
		ledger:      ledger,
		publisher:   publisher,
		invalidator: invalidator,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer("univote/internal/ballot"),
	}
}

// Submit validates and records a complete ballot.
//
// Checks run in order: authentication, election existence, capability,
// eligibility, ballot completeness, candidate validity, voting window, prior
// ballot. The ledger's uniqueness rule remains the authoritative double-vote
// guard; the HasVoted read is only a fast path.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "ballot.submit")
	defer span.End()

	now := requestcontext.Now(ctx)

	voterID := requestcontext.UserID(ctx)
	if voterID.IsNil() {
		s.metrics.RecordRejection(reasonUnauthenticated)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	election, err := s.elections.GetElection(ctx, req.ElectionID)
	if err != nil {
		s.metrics.RecordRejection(reasonStorage)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		s.metrics.RecordRejection(reasonNotFound)
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}

	adminOverride := req.AdminOverride && requestcontext.IsAdmin(ctx)
	if !adminOverride {
		if err := s.checkVoter(ctx, voterID, election); err != nil {
			return nil, err
		}
	}

	if err := s.checkComplete(election, req.Selections); err != nil {
		s.metrics.RecordRejection(reasonIncomplete)
		return nil, err
	}
	if err := s.checkCandidates(ctx, election, req.Selections); err != nil {
		return nil, err
	}

	// The voting window is re-derived from the request clock; the persisted
	// status column plays no part in this decision.
	if !election.AcceptingVotesAt(now) {
		s.metrics.RecordRejection(reasonNotActive)
		return nil, dErrors.New(dErrors.CodeStateConflict, "election is not accepting votes").
			WithDetail("status", string(election.StatusAt(now)))
	}

	voted, err := s.ledger.HasVoted(ctx, req.ElectionID, voterID)
	if err != nil {
		s.metrics.RecordRejection(reasonStorage)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not check prior ballot")
	}
	if voted {
		s.metrics.RecordRejection(reasonAlreadyVoted)
		return nil, dErrors.New(dErrors.CodeConflict, "a ballot has already been recorded for this election")
	}

	ballotID := id.NewBallotID()
	entries, firstChoice := buildEntries(ballotID, election, voterID, req.Selections, now)

	if err := s.ledger.InsertEntries(ctx, entries); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			// Lost the race against a concurrent submit from the same voter.
			s.metrics.RecordRejection(reasonAlreadyVoted)
			return nil, dErrors.New(dErrors.CodeConflict, "a ballot has already been recorded for this election")
		}
		s.compensate(ctx, req.ElectionID, voterID)
		s.metrics.RecordRejection(reasonStorage)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "ballot could not be recorded")
	}

	if s.metrics != nil {
		s.metrics.BallotsSubmitted.Inc()
	}
	s.invalidateTally(ctx, req.ElectionID)
	s.publishBallotRecorded(ctx, ballotID, election, voterID, req.Selections, now)

	s.logger.InfoContext(ctx, "ballot recorded",
		"election_id", req.ElectionID.String(),
		"ballot_id", ballotID.String(),
		"positions", len(entries),
		"admin_override", adminOverride,
	)

	return &models.Receipt{
		BallotID:    ballotID,
		ElectionID:  req.ElectionID,
		FirstChoice: firstChoice,
		SubmittedAt: now,
	}, nil
}

// HasVoted reports whether the authenticated user already holds a ballot in
// the election.
func (s *Service) HasVoted(ctx context.Context, electionID id.ElectionID) (bool, error) {
	voterID := requestcontext.UserID(ctx)
	if voterID.IsNil() {
		return false, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	voted, err := s.ledger.HasVoted(ctx, electionID, voterID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not check prior ballot")
	}
	return voted, nil
}

// CheckEligibility evaluates the election's restriction rules for the
// authenticated user without touching the ledger.
func (s *Service) CheckEligibility(ctx context.Context, electionID id.ElectionID) (eligibility.Decision, error) {
	voterID := requestcontext.UserID(ctx)
	if voterID.IsNil() {
		return eligibility.Decision{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	election, err := s.elections.GetElection(ctx, electionID)
	if err != nil {
		return eligibility.Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return eligibility.Decision{}, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	profile, err := s.profiles.GetProfile(ctx, voterID)
	if err != nil {
		return eligibility.Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load voter profile")
	}
	if profile == nil {
		return eligibility.Decision{Reason: "no voter profile on record"}, nil
	}
	if !profile.CanVote {
		return eligibility.Decision{Reason: "voting capability not granted"}, nil
	}
	return eligibility.Evaluate(*profile, election), nil
}

// ResetVotes deletes every ledger entry of an active election in one step.
// Resetting a completed election would silently rewrite its outcome, so only
// the derived active state allows it.
func (s *Service) ResetVotes(ctx context.Context, electionID id.ElectionID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "ballot.reset_votes")
	defer span.End()

	if !requestcontext.IsAdmin(ctx) {
		return 0, dErrors.New(dErrors.CodeForbidden, "administrator capability required")
	}

	election, err := s.elections.GetElection(ctx, electionID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "election not found")
	}

	now := requestcontext.Now(ctx)
	if status := election.StatusAt(now); status != electionmodels.StatusActive {
		return 0, dErrors.New(dErrors.CodeStateConflict, "votes can only be reset while the election is active").
			WithDetail("status", string(status))
	}

	deleted, err := s.ledger.DeleteElectionEntries(ctx, electionID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not reset votes")
	}

	if s.metrics != nil {
		s.metrics.VotesReset.Inc()
	}
	s.invalidateTally(ctx, electionID)
	if s.publisher != nil {
		envelope := events.VotesReset(uuid.NewString(), electionID, requestcontext.UserID(ctx), deleted, now)
		if err := s.publisher.Publish(ctx, envelope); err != nil {
			s.logger.WarnContext(ctx, "votes reset event not published", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "votes reset",
		"election_id", electionID.String(),
		"entries_deleted", deleted,
	)
	return deleted, nil
}

func (s *Service) checkVoter(ctx context.Context, voterID id.UserID, election *electionmodels.Election) error {
	profile, err := s.profiles.GetProfile(ctx, voterID)
	if err != nil {
		s.metrics.RecordRejection(reasonStorage)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load voter profile")
	}
	if profile == nil || !profile.CanVote {
		s.metrics.RecordRejection(reasonNoCapability)
		return dErrors.New(dErrors.CodeForbidden, "voting capability not granted")
	}
	if decision := eligibility.Evaluate(*profile, election); !decision.Eligible {
		s.metrics.RecordRejection(reasonNotEligible)
		return dErrors.New(dErrors.CodeForbidden, "not eligible for this election").
			WithDetail("reason", decision.Reason)
	}
	return nil
}

func (s *Service) checkComplete(election *electionmodels.Election, selections map[string]models.Selection) error {
	var missing []string
	for _, position := range election.Positions {
		if _, ok := selections[position]; !ok {
			missing = append(missing, position)
		}
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "ballot must include a selection for every position").
			WithDetail("missing_positions", missing)
	}

	var unknown []string
	for position := range selections {
		if !election.HasPosition(position) {
			unknown = append(unknown, position)
		}
	}
	if len(unknown) > 0 {
		return dErrors.New(dErrors.CodeValidation, "ballot names positions the election does not contest").
			WithDetail("unknown_positions", unknown)
	}
	return nil
}

func (s *Service) checkCandidates(ctx context.Context, election *electionmodels.Election, selections map[string]models.Selection) error {
	candidates, err := s.elections.ListCandidates(ctx, election.ID)
	if err != nil {
		s.metrics.RecordRejection(reasonStorage)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load candidates")
	}
	registered := make(map[string]map[id.CandidateID]struct{}, len(election.Positions))
	for _, candidate := range candidates {
		byID := registered[candidate.Position]
		if byID == nil {
			byID = make(map[id.CandidateID]struct{})
			registered[candidate.Position] = byID
		}
		byID[candidate.ID] = struct{}{}
	}
	for position, selection := range selections {
		candidateID, isVote := selection.Candidate()
		if !isVote {
			continue
		}
		if _, ok := registered[position][candidateID]; !ok {
			s.metrics.RecordRejection(reasonInvalidChoice)
			return dErrors.New(dErrors.CodeValidation, "candidate is not registered for the position").
				WithDetail("position", position).
				WithDetail("candidate_id", candidateID.String())
		}
	}
	return nil
}

// compensate removes whatever entries of a failed ballot did land. Only
// called for non-conflict failures; on a conflict the surviving entries
// belong to the voter's earlier ballot and must stay.
func (s *Service) compensate(ctx context.Context, electionID id.ElectionID, voterID id.UserID) {
	if err := s.ledger.DeleteVoterEntries(ctx, electionID, voterID); err != nil {
		s.logger.ErrorContext(ctx, "ballot compensation failed, ledger may hold a partial ballot",
			"election_id", electionID.String(),
			"voter_id", voterID.String(),
			"error", err,
		)
	}
}

func (s *Service) invalidateTally(ctx context.Context, electionID id.ElectionID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, electionID); err != nil {
		s.logger.WarnContext(ctx, "tally cache invalidation failed", "election_id", electionID.String(), "error", err)
	}
}

func (s *Service) publishBallotRecorded(
	ctx context.Context,
	ballotID id.BallotID,
	election *electionmodels.Election,
	voterID id.UserID,
	selections map[string]models.Selection,
	now time.Time,
) {
	if s.publisher == nil {
		return
	}
	flattened := make(map[string]string, len(selections))
	for position, selection := range selections {
		if candidateID, isVote := selection.Candidate(); isVote {
			flattened[position] = candidateID.String()
		} else {
			flattened[position] = "abstain"
		}
	}
	envelope := events.BallotRecorded(
		uuid.NewString(),
		ballotID,
		election.ID,
		voterID,
		flattened,
		requestcontext.UserAgent(ctx),
		now,
	)
	if err := s.publisher.Publish(ctx, envelope); err != nil {
		s.logger.WarnContext(ctx, "ballot recorded event not published",
			"election_id", election.ID.String(),
			"ballot_id", ballotID.String(),
			"error", err,
		)
	}
}

// buildEntries lays the ballot out in the election's position order and
// picks the first non-abstain selection as the receipt's first choice.
func buildEntries(
	ballotID id.BallotID,
	election *electionmodels.Election,
	voterID id.UserID,
	selections map[string]models.Selection,
	now time.Time,
) ([]*models.Entry, *id.CandidateID) {
	entries := make([]*models.Entry, 0, len(election.Positions))
	var firstChoice *id.CandidateID
	for _, position := range election.Positions {
		selection := selections[position]
		entry := &models.Entry{
			BallotID:   ballotID,
			ElectionID: election.ID,
			VoterID:    voterID,
			Position:   position,
			CreatedAt:  now,
		}
		if candidateID, isVote := selection.Candidate(); isVote {
			chosen := candidateID
			entry.CandidateID = &chosen
			if firstChoice == nil {
				firstChoice = &chosen
			}
		}
		entries = append(entries, entry)
	}
	return entries, firstChoice
}

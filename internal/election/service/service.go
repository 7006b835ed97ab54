// Package service manages election configuration: creation, candidate
// registration, access codes and the persisted display status.
package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"univote/internal/election/models"
	"univote/internal/platform/metrics"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	platformstrings "univote/pkg/platform/strings"
	"univote/pkg/requestcontext"
)

// Store persists elections and candidates.
type Store interface {
	GetElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	ListElections(ctx context.Context) ([]*models.Election, error)
	CreateElection(ctx context.Context, election *models.Election) error
	UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error
	ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error)
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
}

// CreateRequest carries a new election's configuration.
type CreateRequest struct {
	Title               string
	Description         string
	StartDate           time.Time
	EndDate             time.Time
	CandidacyStartDate  *time.Time
	CandidacyEndDate    *time.Time
	IsPrivate           bool
	AccessCode          string
	RestrictVoting      bool
	Colleges            []string
	EligibleYearLevels  []string
	Positions           []string
	TotalEligibleVoters int
}

// RegisterCandidateRequest adds one candidate to a contested position.
type RegisterCandidateRequest struct {
	ElectionID id.ElectionID
	Position   string
	Name       string
	Platform   string
}

// Service manages election configuration.
type Service struct {
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New constructs the election service.
func New(store Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, metrics: m, logger: logger}
}

// Get returns one election with its status derived from the request clock.
func (s *Service) Get(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	election, err := s.store.GetElection(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	election.Status = election.StatusAt(requestcontext.Now(ctx))
	return election, nil
}

// List returns all elections ordered by start date, statuses derived from the
// request clock.
func (s *Service) List(ctx context.Context) ([]*models.Election, error) {
	elections, err := s.store.ListElections(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not list elections")
	}
	now := requestcontext.Now(ctx)
	for _, election := range elections {
		election.Status = election.StatusAt(now)
	}
	sort.Slice(elections, func(i, j int) bool {
		if !elections[i].StartDate.Equal(elections[j].StartDate) {
			return elections[i].StartDate.Before(elections[j].StartDate)
		}
		return elections[i].Title < elections[j].Title
	})
	return elections, nil
}

// Create validates and stores a new election.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Election, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "administrator capability required")
	}
	if req.Title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title must not be empty")
	}
	if len(req.Positions) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "an election needs at least one contested position")
	}
	seen := make(map[string]struct{}, len(req.Positions))
	for _, position := range req.Positions {
		if position == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "position names must not be empty")
		}
		if _, dup := seen[position]; dup {
			return nil, dErrors.New(dErrors.CodeValidation, "position names must be unique").
				WithDetail("position", position)
		}
		seen[position] = struct{}{}
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, dErrors.New(dErrors.CodeValidation, "start date must be before end date")
	}
	if req.CandidacyStartDate != nil && req.CandidacyEndDate != nil &&
		!req.CandidacyStartDate.Before(*req.CandidacyEndDate) {
		return nil, dErrors.New(dErrors.CodeValidation, "candidacy start must be before candidacy end")
	}
	if req.IsPrivate && req.AccessCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a private election needs an access code")
	}

	var accessCodeHash string
	if req.IsPrivate {
		hash, err := HashAccessCode(req.AccessCode)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not hash access code")
		}
		accessCodeHash = hash
	}

	now := requestcontext.Now(ctx)
	election := &models.Election{
		ID:                  id.NewElectionID(),
		Title:               req.Title,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		CandidacyStartDate:  req.CandidacyStartDate,
		CandidacyEndDate:    req.CandidacyEndDate,
		Status:              models.StatusAt(now, req.StartDate, req.EndDate),
		IsPrivate:           req.IsPrivate,
		AccessCodeHash:      accessCodeHash,
		RestrictVoting:      req.RestrictVoting,
		Colleges:            platformstrings.DedupeAndTrim(req.Colleges),
		EligibleYearLevels:  platformstrings.DedupeAndTrim(req.EligibleYearLevels),
		Positions:           req.Positions,
		TotalEligibleVoters: req.TotalEligibleVoters,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateElection(ctx, election); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store election")
	}

	s.logger.InfoContext(ctx, "election created",
		"election_id", election.ID.String(),
		"title", election.Title,
		"positions", len(election.Positions),
	)
	return election, nil
}

// RegisterCandidate adds a candidate while the candidacy window is open. The
// roster freezes once voting starts.
func (s *Service) RegisterCandidate(ctx context.Context, req RegisterCandidateRequest) (*models.Candidate, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "administrator capability required")
	}
	if req.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "candidate name must not be empty")
	}

	election, err := s.store.GetElection(ctx, req.ElectionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	if !election.HasPosition(req.Position) {
		return nil, dErrors.New(dErrors.CodeValidation, "election does not contest this position").
			WithDetail("position", req.Position)
	}

	now := requestcontext.Now(ctx)
	if !election.InCandidacyWindowAt(now) {
		return nil, dErrors.New(dErrors.CodeStateConflict, "candidate registration is closed")
	}

	candidate := &models.Candidate{
		ID:         id.NewCandidateID(),
		ElectionID: req.ElectionID,
		Position:   req.Position,
		Name:       req.Name,
		Platform:   req.Platform,
		CreatedAt:  now,
	}
	if err := s.store.CreateCandidate(ctx, candidate); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store candidate")
	}
	return candidate, nil
}

// ListCandidates returns the election's roster in registration order.
func (s *Service) ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error) {
	election, err := s.store.GetElection(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	candidates, err := s.store.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not list candidates")
	}
	return candidates, nil
}

// VerifyAccessCode checks a code against a private election's stored hash.
// A public election accepts any code. A wrong code is a negative result, not
// an error.
func (s *Service) VerifyAccessCode(ctx context.Context, electionID id.ElectionID, code string) (bool, error) {
	election, err := s.store.GetElection(ctx, electionID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return false, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	if !election.IsPrivate {
		return true, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(election.AccessCodeHash), []byte(code))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "could not verify access code")
	}
	return true, nil
}

// SyncStatuses refreshes the persisted display status of every election whose
// derived status moved on. Returns how many rows changed.
func (s *Service) SyncStatuses(ctx context.Context) (int, error) {
	elections, err := s.store.ListElections(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not list elections")
	}
	now := requestcontext.Now(ctx)
	updated := 0
	for _, election := range elections {
		derived := election.StatusAt(now)
		if derived == election.Status {
			continue
		}
		if err := s.store.UpdateStatus(ctx, election.ID, derived); err != nil {
			return updated, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not update election status")
		}
		updated++
		s.logger.InfoContext(ctx, "election status refreshed",
			"election_id", election.ID.String(),
			"from", string(election.Status),
			"to", string(derived),
		)
	}
	if updated > 0 && s.metrics != nil {
		s.metrics.StatusSyncUpdates.Add(float64(updated))
	}
	return updated, nil
}

// StartStatusSync runs SyncStatuses on a fixed interval until ctx is
// cancelled. The persisted column is display-only, so a missed tick degrades
// listings at worst.
func (s *Service) StartStatusSync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SyncStatuses(ctx); err != nil {
					s.logger.WarnContext(ctx, "status sync failed", "error", err)
				}
			}
		}
	}()
}

// HashAccessCode hashes a private election's access code for storage.
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Package handler exposes election configuration over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"univote/internal/election/models"
	"univote/internal/election/service"
	"univote/internal/http/shared"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/requestcontext"
)

// Service defines the election operations the handler delegates to.
type Service interface {
	Get(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	List(ctx context.Context) ([]*models.Election, error)
	Create(ctx context.Context, req service.CreateRequest) (*models.Election, error)
	RegisterCandidate(ctx context.Context, req service.RegisterCandidateRequest) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error)
	VerifyAccessCode(ctx context.Context, electionID id.ElectionID, code string) (bool, error)
	SyncStatuses(ctx context.Context) (int, error)
}

// Handler serves the election endpoints.
type Handler struct {
	elections Service
	logger    *slog.Logger
}

// New creates an election Handler.
func New(elections Service, logger *slog.Logger) *Handler {
	return &Handler{elections: elections, logger: logger}
}

// Register mounts the public election routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/elections", h.handleList)
	r.Get("/elections/{electionID}", h.handleGet)
	r.Get("/elections/{electionID}/candidates", h.handleListCandidates)
	r.Post("/elections/{electionID}/verify-access", h.handleVerifyAccess)
}

// RegisterAdmin mounts the administrative election routes. The caller wraps
// them in the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/elections", h.handleCreate)
	r.Post("/elections/{electionID}/candidates", h.handleRegisterCandidate)
	r.Post("/elections/{electionID}/sync-status", h.handleSyncStatuses)
}

type electionResponse struct {
	ID                  id.ElectionID `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description,omitempty"`
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	CandidacyStartDate  *time.Time    `json:"candidacy_start_date,omitempty"`
	CandidacyEndDate    *time.Time    `json:"candidacy_end_date,omitempty"`
	Status              string        `json:"status"`
	IsPrivate           bool          `json:"is_private"`
	RestrictVoting      bool          `json:"restrict_voting"`
	Colleges            []string      `json:"colleges,omitempty"`
	EligibleYearLevels  []string      `json:"eligible_year_levels,omitempty"`
	Positions           []string      `json:"positions"`
	TotalEligibleVoters int           `json:"total_eligible_voters"`
}

type candidateResponse struct {
	ID       id.CandidateID `json:"id"`
	Position string         `json:"position"`
	Name     string         `json:"name"`
	Platform string         `json:"platform,omitempty"`
}

// toResponse strips storage-only fields; the access code hash never leaves
// the service.
func toResponse(election *models.Election) electionResponse {
	return electionResponse{
		ID:                  election.ID,
		Title:               election.Title,
		Description:         election.Description,
		StartDate:           election.StartDate,
		EndDate:             election.EndDate,
		CandidacyStartDate:  election.CandidacyStartDate,
		CandidacyEndDate:    election.CandidacyEndDate,
		Status:              string(election.Status),
		IsPrivate:           election.IsPrivate,
		RestrictVoting:      election.RestrictVoting,
		Colleges:            election.Colleges,
		EligibleYearLevels:  election.EligibleYearLevels,
		Positions:           election.Positions,
		TotalEligibleVoters: election.TotalEligibleVoters,
	}
}

func toCandidateResponse(candidate *models.Candidate) candidateResponse {
	return candidateResponse{
		ID:       candidate.ID,
		Position: candidate.Position,
		Name:     candidate.Name,
		Platform: candidate.Platform,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	elections, err := h.elections.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list elections failed", "error", err)
		shared.WriteError(w, err)
		return
	}
	out := make([]electionResponse, 0, len(elections))
	for _, election := range elections {
		out = append(out, toResponse(election))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	election, err := h.elections.Get(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(election))
}

func (h *Handler) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	candidates, err := h.elections.ListCandidates(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, toCandidateResponse(candidate))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

type verifyAccessRequest struct {
	AccessCode string `json:"access_code"`
}

func (h *Handler) handleVerifyAccess(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req verifyAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ok, err := h.elections.VerifyAccessCode(r.Context(), electionID, req.AccessCode)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"valid": ok})
}

type createElectionRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	CandidacyStartDate  *time.Time `json:"candidacy_start_date"`
	CandidacyEndDate    *time.Time `json:"candidacy_end_date"`
	IsPrivate           bool       `json:"is_private"`
	AccessCode          string     `json:"access_code"`
	RestrictVoting      bool       `json:"restrict_voting"`
	Colleges            []string   `json:"colleges"`
	EligibleYearLevels  []string   `json:"eligible_year_levels"`
	Positions           []string   `json:"positions"`
	TotalEligibleVoters int        `json:"total_eligible_voters"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	election, err := h.elections.Create(r.Context(), service.CreateRequest{
		Title:               req.Title,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		CandidacyStartDate:  req.CandidacyStartDate,
		CandidacyEndDate:    req.CandidacyEndDate,
		IsPrivate:           req.IsPrivate,
		AccessCode:          req.AccessCode,
		RestrictVoting:      req.RestrictVoting,
		Colleges:            req.Colleges,
		EligibleYearLevels:  req.EligibleYearLevels,
		Positions:           req.Positions,
		TotalEligibleVoters: req.TotalEligibleVoters,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "create election rejected",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toResponse(election))
}

type registerCandidateRequest struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

func (h *Handler) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req registerCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	candidate, err := h.elections.RegisterCandidate(r.Context(), service.RegisterCandidateRequest{
		ElectionID: electionID,
		Position:   req.Position,
		Name:       req.Name,
		Platform:   req.Platform,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toCandidateResponse(candidate))
}

func (h *Handler) handleSyncStatuses(w http.ResponseWriter, r *http.Request) {
	updated, err := h.elections.SyncStatuses(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "status sync failed", "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

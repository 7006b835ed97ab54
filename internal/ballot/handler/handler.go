// Package handler exposes ballot submission and the voter-facing checks over
// HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"univote/internal/ballot/models"
	"univote/internal/ballot/service"
	"univote/internal/eligibility"
	"univote/internal/http/shared"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/requestcontext"
)

// Service defines the ballot operations the handler delegates to.
type Service interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*models.Receipt, error)
	HasVoted(ctx context.Context, electionID id.ElectionID) (bool, error)
	CheckEligibility(ctx context.Context, electionID id.ElectionID) (eligibility.Decision, error)
	ResetVotes(ctx context.Context, electionID id.ElectionID) (int64, error)
}

// Handler serves the ballot endpoints.
type Handler struct {
	ballots Service
	logger  *slog.Logger
}

// New creates a ballot Handler.
func New(ballots Service, logger *slog.Logger) *Handler {
	return &Handler{ballots: ballots, logger: logger}
}

// Register mounts the voter-facing ballot routes. The caller wraps them in
// the session auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/elections/{electionID}/ballots", h.handleSubmit)
	r.Get("/elections/{electionID}/ballots/me", h.handleHasVoted)
	r.Get("/elections/{electionID}/eligibility", h.handleEligibility)
}

// RegisterAdmin mounts the administrative ballot routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/elections/{electionID}/reset-votes", h.handleResetVotes)
}

// submitRequest is the wire form of a ballot. Each position maps to either a
// candidate ID or the literal "abstain"; there is no implicit abstention.
type submitRequest struct {
	Selections    map[string]string `json:"selections"`
	AdminOverride bool              `json:"admin_override,omitempty"`
}

type receiptResponse struct {
	BallotID    id.BallotID     `json:"ballot_id"`
	ElectionID  id.ElectionID   `json:"election_id"`
	FirstChoice *id.CandidateID `json:"first_choice,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	selections, err := parseSelections(req.Selections)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	receipt, err := h.ballots.Submit(ctx, service.SubmitRequest{
		ElectionID:    electionID,
		Selections:    selections,
		AdminOverride: req.AdminOverride,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "ballot rejected",
			"request_id", requestcontext.RequestID(ctx),
			"election_id", electionID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, receiptResponse{
		BallotID:    receipt.BallotID,
		ElectionID:  receipt.ElectionID,
		FirstChoice: receipt.FirstChoice,
		SubmittedAt: receipt.SubmittedAt,
	})
}

func (h *Handler) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	voted, err := h.ballots.HasVoted(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"has_voted": voted})
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	decision, err := h.ballots.CheckEligibility(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	voted, err := h.ballots.HasVoted(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"eligible":  decision.Eligible,
		"reason":    decision.Reason,
		"has_voted": voted,
	})
}

func (h *Handler) handleResetVotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	deleted, err := h.ballots.ResetVotes(ctx, electionID)
	if err != nil {
		h.logger.WarnContext(ctx, "vote reset rejected",
			"election_id", electionID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int64{"entries_deleted": deleted})
}

// parseSelections converts the wire map into typed selections. "abstain" is
// the only non-UUID value accepted.
func parseSelections(raw map[string]string) (map[string]models.Selection, error) {
	selections := make(map[string]models.Selection, len(raw))
	for position, value := range raw {
		if value == "abstain" {
			selections[position] = models.Abstain()
			continue
		}
		candidateID, err := id.ParseCandidateID(value)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "selection must be a candidate id or \"abstain\"").
				WithDetail("position", position)
		}
		selections[position] = models.Vote(candidateID)
	}
	return selections, nil
}

package tally

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"univote/internal/http/shared"
	id "univote/pkg/domain"
)

// Handler serves the tally endpoints.
type Handler struct {
	tallies *Service
	logger  *slog.Logger
}

// NewHandler creates a tally Handler.
func NewHandler(tallies *Service, logger *slog.Logger) *Handler {
	return &Handler{tallies: tallies, logger: logger}
}

// Register mounts the tally routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/elections/{electionID}/tally", h.handleTally)
	r.Get("/elections/{electionID}/turnout", h.handleTurnout)
}

func (h *Handler) handleTally(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.tallies.Compute(r.Context(), electionID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "tally failed", "election_id", electionID.String(), "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTurnout(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	turnout, err := h.tallies.ComputeTurnout(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, turnout)
}

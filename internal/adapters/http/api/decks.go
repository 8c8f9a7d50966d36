package api

import (
	"net/http"

	"github.com/okian/loadout/internal/domain/model"
)

// DecksHandler handles catalog listing requests.
type DecksHandler struct {
	deps Dependencies
}

// NewDecksHandler creates a new decks handler.
func NewDecksHandler(deps Dependencies) *DecksHandler {
	return &DecksHandler{deps: deps}
}

type decksResponse struct {
	Decks []model.DeckDefinition `json:"decks"`
}

// HandleGetDecks handles GET /api/decks requests.
func (h *DecksHandler) HandleGetDecks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, decksResponse{Decks: h.deps.Decks(r.Context())})
}

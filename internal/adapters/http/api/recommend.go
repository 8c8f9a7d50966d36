package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/loadout/internal/domain/model"
)

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps Dependencies
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps Dependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandlePostRecommend handles POST /api/recommend requests.
func (h *RecommendHandler) HandlePostRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req model.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateRecommendation(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func validateRecommendation(req model.RecommendationRequest) error {
	switch {
	case !req.Quiz.PreferredPace.Valid():
		return fmt.Errorf("invalid preferred_pace %q", req.Quiz.PreferredPace)
	case !req.Quiz.ComfortLevel.Valid():
		return fmt.Errorf("invalid comfort_level %q", req.Quiz.ComfortLevel)
	case !req.Quiz.RiskTolerance.Valid():
		return fmt.Errorf("invalid risk_tolerance %q", req.Quiz.RiskTolerance)
	case req.Profile.Trophies < 0:
		return errors.New("trophies must not be negative")
	}

	for i, card := range req.Profile.Collection {
		if strings.TrimSpace(card.Key) == "" {
			return fmt.Errorf("collection[%d] missing key", i)
		}
		if card.Level < 0 {
			return fmt.Errorf("collection[%d] has negative level", i)
		}
	}

	if fb := req.Feedback; fb != nil {
		for _, arch := range fb.PreferArchetypes {
			if !arch.Valid() {
				return fmt.Errorf("unknown preferred archetype %q", arch)
			}
		}
		for _, arch := range fb.AvoidArchetypes {
			if !arch.Valid() {
				return fmt.Errorf("unknown avoided archetype %q", arch)
			}
		}
	}

	if b := req.Battles; b != nil {
		if b.TotalBattles < 0 {
			return errors.New("total_battles must not be negative")
		}
		for arch, count := range b.ArchetypeExposure {
			if !arch.Valid() {
				return fmt.Errorf("unknown exposure archetype %q", arch)
			}
			if count < 0 {
				return fmt.Errorf("negative exposure count for %q", arch)
			}
		}
	}

	return nil
}

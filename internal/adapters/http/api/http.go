// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend runs a full ranking pass and opens a feedback session.
	Recommend(ctx context.Context, req model.RecommendationRequest) (Recommendation, error)

	// Feedback records a player's reaction to a prior recommendation.
	Feedback(ctx context.Context, sub FeedbackSubmission) error

	// Decks lists the recommendation catalog.
	Decks(ctx context.Context) []model.DeckDefinition
}

// Recommendation mirrors the read shape returned by recommendation passes.
type Recommendation = types.Recommendation

// FeedbackSubmission mirrors the POST /api/feedback body.
type FeedbackSubmission = types.FeedbackSubmission

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	feedbackHandler  *FeedbackHandler
	decksHandler     *DecksHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps),
		feedbackHandler:  NewFeedbackHandler(deps),
		decksHandler:     NewDecksHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/recommend", MetricsMiddleware(s.recommendHandler.HandlePostRecommend, "recommend"))
	mux.HandleFunc("/api/feedback", MetricsMiddleware(s.feedbackHandler.HandlePostFeedback, "feedback"))
	mux.HandleFunc("/api/decks", MetricsMiddleware(s.decksHandler.HandleGetDecks, "decks"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404 without coupling
// the handler layer to a specific implementation's sentinels.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

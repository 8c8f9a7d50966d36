// Package app wires the domain and adapter layers into one service facade
// consumed by the HTTP handlers.
package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/loadout/internal/adapters/analytics"
	"github.com/okian/loadout/internal/adapters/sessioncache"
	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/ranking"
	"github.com/okian/loadout/internal/domain/types"
	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// Service is the application facade behind the HTTP API.
type Service struct {
	ranker    *ranking.Ranker
	sessions  *sessioncache.Cache
	sink      analytics.Sink
	catalog   *catalog.Provider
	log       logger.Logger
	startedAt time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRanker sets the deck ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithSessionCache sets the session store.
func WithSessionCache(c *sessioncache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.sessions = c
		}
	}
}

// WithSink sets the analytics sink.
func WithSink(sink analytics.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithCatalog sets the deck catalog.
func WithCatalog(p *catalog.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.catalog = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates the service. Without options every collaborator is an
// in-process default, which is what tests want.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:  sessioncache.New(),
		sink:      analytics.NoopSink{},
		catalog:   catalog.NewProvider(),
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ranker == nil {
		s.ranker = ranking.NewRanker(ranking.WithCatalog(s.catalog))
	}

	return s
}

// Recommend runs a ranking pass, opens a feedback session for the result,
// and returns the recommendation.
func (s *Service) Recommend(ctx context.Context, req model.RecommendationRequest) (types.Recommendation, error) {
	result := s.ranker.Rank(ctx, req)

	sessionID := uuid.NewString()
	slugs := make([]string, len(result.Decks))
	for i, d := range result.Decks {
		slugs[i] = d.Deck.Slug
	}

	session := sessioncache.Session{
		ID:        sessionID,
		UserID:    req.UserID,
		PlayerTag: req.Profile.Tag,
		Variant:   result.Variant,
		Weights:   result.Weights,
		DeckSlugs: slugs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		// Feedback for this session will 404, but the recommendation
		// itself is still good.
		if s.log != nil {
			s.log.Warn(ctx, "failed to persist session", logger.String("session_id", sessionID), logger.Error(err))
		}
	}

	metrics.RecordRecommendationServed()
	s.sink.Emit(ctx, analytics.Event{
		Name: "recommendation_served",
		Properties: map[string]any{
			"session_id": sessionID,
			"variant":    result.Variant,
			"decks":      slugs,
			"player_tag": req.Profile.Tag,
		},
	})

	return types.Recommendation{
		SessionID: sessionID,
		Variant:   result.Variant,
		Weights:   result.Weights,
		Decks:     result.Decks,
		Notes:     result.Notes,
		CreatedAt: session.CreatedAt,
	}, nil
}

// Feedback attributes a player's reaction to a prior recommendation
// session and forwards it to analytics.
func (s *Service) Feedback(ctx context.Context, sub types.FeedbackSubmission) error {
	session, ok := s.sessions.Get(ctx, sub.SessionID)
	if !ok {
		return fmt.Errorf("session %q: %w", sub.SessionID, ErrSessionNotFound)
	}

	metrics.RecordFeedbackReceived()
	s.sink.Emit(ctx, analytics.Event{
		Name: "recommendation_feedback",
		Properties: map[string]any{
			"session_id": session.ID,
			"variant":    session.Variant,
			"rating":     sub.Rating,
			"deck_slug":  sub.DeckSlug,
			"notes":      sub.Notes,
		},
	})

	return nil
}

// Decks lists the recommendation catalog.
func (s *Service) Decks(_ context.Context) []model.DeckDefinition {
	return s.catalog.Decks()
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds":  int(time.Since(s.startedAt).Seconds()),
		"catalog_decks":   s.catalog.Len(),
		"active_sessions": s.sessions.Len(),
		"goroutines":      runtime.NumGoroutine(),
	}
}

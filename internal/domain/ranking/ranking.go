// Package ranking turns the deck catalog into an ordered recommendation
// list for one player.
//
// A ranking pass resolves the factor weights exactly once, scores every
// catalog deck with them, and returns the top results in descending score
// order. Equal scores keep catalog declaration order, so output is fully
// deterministic for a fixed input.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/scoring"
	"github.com/okian/loadout/internal/domain/weights"
	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// defaultMaxResults is how many decks a recommendation returns unless
// configured otherwise.
const defaultMaxResults = 3

// Result is the outcome of one ranking pass.
type Result struct {
	Decks   []model.DeckScore `json:"decks"`
	Variant string            `json:"variant"`
	Weights weights.Weights   `json:"weights"`
	Notes   []string          `json:"notes,omitempty"`
}

// Ranker scores and orders catalog decks for recommendation requests.
type Ranker struct {
	catalog    *catalog.Provider
	resolver   *weights.Resolver
	log        logger.Logger
	maxResults int
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithCatalog sets the deck catalog to rank over.
func WithCatalog(p *catalog.Provider) Option {
	return func(r *Ranker) {
		if p != nil {
			r.catalog = p
		}
	}
}

// WithResolver sets the weight resolver.
func WithResolver(res *weights.Resolver) Option {
	return func(r *Ranker) {
		if res != nil {
			r.resolver = res
		}
	}
}

// WithLogger sets a custom logger for the ranker.
func WithLogger(log logger.Logger) Option {
	return func(r *Ranker) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMaxResults caps how many decks a ranking pass returns.
func WithMaxResults(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// NewRanker creates a ranker with default configuration.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		catalog:    catalog.NewProvider(),
		resolver:   weights.NewResolver(),
		maxResults: defaultMaxResults,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Rank resolves weights for the request, scores every catalog deck, and
// returns the top decks in descending score order.
func (r *Ranker) Rank(ctx context.Context, req model.RecommendationRequest) Result {
	start := time.Now()

	resolution := r.resolver.Resolve(ctx, weights.Payload{
		UserID:          req.UserID,
		PlayerTag:       req.Profile.Tag,
		SessionID:       req.SessionID,
		VariantOverride: req.VariantOverride,
		Feedback:        req.Feedback,
		Battles:         req.Battles,
	})

	in := scoring.Input{Profile: req.Profile, Quiz: req.Quiz}

	scored := make([]model.DeckScore, 0, r.catalog.Len())
	for _, deck := range r.catalog.Decks() {
		ds := scoring.ScoreDeck(deck, in, resolution.Weights)
		annotate(&ds, req.Feedback)
		scored = append(scored, ds)
		metrics.RecordDeckScored()
	}

	// Stable sort keeps catalog order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.maxResults {
		scored = scored[:r.maxResults]
	}

	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	if r.log != nil {
		top := ""
		if len(scored) > 0 {
			top = scored[0].Deck.Slug
		}
		r.log.Debug(ctx, "ranked decks",
			logger.String("variant", resolution.Variant),
			logger.Int("results", len(scored)),
			logger.String("top", top),
		)
	}

	return Result{
		Decks:   scored,
		Variant: resolution.Variant,
		Weights: resolution.Weights,
		Notes:   resolution.Notes,
	}
}

// annotate appends archetype preference notes from feedback. Preferences
// are advisory only; they never change a score or the ordering.
func annotate(ds *model.DeckScore, fb *model.FeedbackPreferences) {
	if fb == nil {
		return
	}
	for _, arch := range fb.PreferArchetypes {
		if ds.Deck.Archetype == arch {
			ds.Notes = append(ds.Notes, fmt.Sprintf("Matches your preferred %s archetype.", arch))
			break
		}
	}
	for _, arch := range fb.AvoidArchetypes {
		if ds.Deck.Archetype == arch {
			ds.Notes = append(ds.Notes, fmt.Sprintf("Listed despite your preference to avoid %s decks.", arch))
			break
		}
	}
}

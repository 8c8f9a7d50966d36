// Package weights resolves the four factor weights used by the deck scorer.
//
// The resolver owns the experiment-variant adjustment logic: the control
// variant applies mild, conservative tweaks while the meta-aware variant
// rebalances aggressively from recent opponent exposure. Resolution never
// fails; missing optional signals simply leave the baseline untouched.
package weights

import (
	"context"
	"math"

	"github.com/okian/loadout/internal/adapters/analytics"
	"github.com/okian/loadout/internal/domain/experiment"
	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// Weights holds the scoring factor weights. Each stays within [0,1]; the
// set is not renormalized after adjustment but is never all-zero.
type Weights struct {
	Collection float64 `json:"collection"`
	Trophies   float64 `json:"trophies"`
	Playstyle  float64 `json:"playstyle"`
	Difficulty float64 `json:"difficulty"`
}

// Baseline returns the default weights. They sum to 1.0.
func Baseline() Weights {
	return Weights{
		Collection: 0.4,
		Trophies:   0.2,
		Playstyle:  0.3,
		Difficulty: 0.1,
	}
}

// Adjustment deltas and bounds.
const (
	defaultExposureThreshold = 0.5

	controlExposureNudge = 0.05

	metaPlaystyleBoost  = 0.15
	metaDifficultyBoost = 0.10
	metaCollectionCut   = 0.15
	metaCollectionFloor = 0.10
)

// metaAwareNote is surfaced so downstream consumers can detect which
// strategy produced a result. It must contain the variant name.
const metaAwareNote = "Using meta-aware weighting based on recent opponent exposure."

// Payload carries the per-request signals available for weight resolution.
type Payload struct {
	UserID          string
	PlayerTag       string
	SessionID       string
	VariantOverride string
	Feedback        *model.FeedbackPreferences
	Battles         *model.BattleArchetypeAggregate
}

// Resolution is the outcome of one weight resolution pass.
type Resolution struct {
	Weights Weights  `json:"weights"`
	Variant string   `json:"variant"`
	Notes   []string `json:"notes,omitempty"`
}

// Resolver computes scoring weights for a request.
type Resolver struct {
	sink              analytics.Sink
	log               logger.Logger
	exposureThreshold float64
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSink sets the analytics sink receiving assignment/exposure events.
func WithSink(sink analytics.Sink) Option {
	return func(r *Resolver) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithExposureThreshold overrides the dominant-archetype share above which
// counter-play emphasis kicks in.
func WithExposureThreshold(threshold float64) Option {
	return func(r *Resolver) {
		if threshold > 0 && threshold <= 1 {
			r.exposureThreshold = threshold
		}
	}
}

// NewResolver creates a resolver with default configuration.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		sink:              analytics.NoopSink{},
		exposureThreshold: defaultExposureThreshold,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve determines the experiment variant for the payload and derives
// the factor weights for it. Analytics emission is fire-and-forget and
// never affects the result.
func (r *Resolver) Resolve(ctx context.Context, p Payload) Resolution {
	assignment, err := experiment.Assign(experiment.KeyDeckWeighting, experiment.Context{
		UserID:          p.UserID,
		PlayerTag:       p.PlayerTag,
		SessionID:       p.SessionID,
		OverrideVariant: p.VariantOverride,
	})
	if err != nil {
		// Cannot happen for a registered key; fall back to control.
		assignment = experiment.Assignment{Variant: experiment.VariantControl, Reason: experiment.ReasonRollout}
	}

	r.emit(ctx, assignment)

	res := Resolution{Weights: Baseline(), Variant: assignment.Variant}

	switch assignment.Variant {
	case experiment.VariantMetaAware:
		r.applyMetaAware(&res, p)
	default:
		r.applyControl(&res, p)
	}

	clampWeights(&res.Weights)

	return res
}

// applyControl blends explicit feedback overrides toward the baseline and
// nudges counter-play factors when one archetype dominates recent battles.
func (r *Resolver) applyControl(res *Resolution, p Payload) {
	if p.Feedback != nil {
		blend := func(current float64, override *float64) float64 {
			if override == nil {
				return current
			}
			return (current + clamp01(*override)) / 2
		}
		res.Weights.Collection = blend(res.Weights.Collection, p.Feedback.CollectionWeight)
		res.Weights.Trophies = blend(res.Weights.Trophies, p.Feedback.TrophiesWeight)
		res.Weights.Playstyle = blend(res.Weights.Playstyle, p.Feedback.PlaystyleWeight)
		res.Weights.Difficulty = blend(res.Weights.Difficulty, p.Feedback.DifficultyWeight)
	}

	if p.Battles != nil {
		if _, share, ok := p.Battles.DominantExposure(); ok && share >= r.exposureThreshold {
			res.Weights.Playstyle += controlExposureNudge
			res.Weights.Difficulty += controlExposureNudge
		}
	}
}

// applyMetaAware replaces overridden weights outright and rebalances hard
// toward playstyle and difficulty under meta pressure.
func (r *Resolver) applyMetaAware(res *Resolution, p Payload) {
	if p.Feedback != nil {
		replace := func(current float64, override *float64) float64 {
			if override == nil {
				return current
			}
			return clamp01(*override)
		}
		res.Weights.Collection = replace(res.Weights.Collection, p.Feedback.CollectionWeight)
		res.Weights.Trophies = replace(res.Weights.Trophies, p.Feedback.TrophiesWeight)
		res.Weights.Playstyle = replace(res.Weights.Playstyle, p.Feedback.PlaystyleWeight)
		res.Weights.Difficulty = replace(res.Weights.Difficulty, p.Feedback.DifficultyWeight)
	}

	if p.Battles != nil {
		if _, share, ok := p.Battles.DominantExposure(); ok && share >= r.exposureThreshold {
			res.Weights.Playstyle += metaPlaystyleBoost
			res.Weights.Difficulty += metaDifficultyBoost
			res.Weights.Collection = math.Max(metaCollectionFloor, res.Weights.Collection-metaCollectionCut)
		}
	}

	res.Notes = append(res.Notes, metaAwareNote)
}

// emit publishes the assignment and exposure events. Sink failures are the
// sink's problem; this path must never block resolution.
func (r *Resolver) emit(ctx context.Context, a experiment.Assignment) {
	metrics.RecordExperimentAssignment(a.Variant, string(a.Reason))

	r.sink.Emit(ctx, analytics.Event{
		Name: "experiment_assignment",
		Properties: map[string]any{
			"experiment": string(experiment.KeyDeckWeighting),
			"variant":    a.Variant,
			"reason":     string(a.Reason),
		},
	})
	r.sink.Emit(ctx, analytics.Event{
		Name: "experiment_exposure",
		Properties: map[string]any{
			"experiment": string(experiment.KeyDeckWeighting),
			"variant":    a.Variant,
		},
	})
}

// clampWeights bounds every weight to [0,1] and rejects a degenerate
// all-zero set by restoring the baseline.
func clampWeights(w *Weights) {
	w.Collection = clamp01(w.Collection)
	w.Trophies = clamp01(w.Trophies)
	w.Playstyle = clamp01(w.Playstyle)
	w.Difficulty = clamp01(w.Difficulty)

	if w.Collection == 0 && w.Trophies == 0 && w.Playstyle == 0 && w.Difficulty == 0 {
		*w = Baseline()
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

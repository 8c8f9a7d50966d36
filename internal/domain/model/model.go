// Package model contains domain models passed between layers.
package model

// Pace is a player's preferred game tempo from the playstyle quiz.
type Pace string

// Quiz pace answers.
const (
	PaceAggro    Pace = "aggro"
	PaceBalanced Pace = "balanced"
	PaceControl  Pace = "control"
)

// Valid reports whether the pace is a known quiz answer.
func (p Pace) Valid() bool {
	switch p {
	case PaceAggro, PaceBalanced, PaceControl:
		return true
	}
	return false
}

// Comfort is the playstyle family a player feels at home with.
type Comfort string

// Quiz comfort answers.
const (
	ComfortCycle  Comfort = "cycle"
	ComfortBridge Comfort = "bridge"
	ComfortSpell  Comfort = "spell"
)

// Valid reports whether the comfort level is a known quiz answer.
func (c Comfort) Valid() bool {
	switch c {
	case ComfortCycle, ComfortBridge, ComfortSpell:
		return true
	}
	return false
}

// Risk is a player's declared risk tolerance.
type Risk string

// Quiz risk answers.
const (
	RiskSafe   Risk = "safe"
	RiskMid    Risk = "mid"
	RiskGreedy Risk = "greedy"
)

// Valid reports whether the risk tolerance is a known quiz answer.
func (r Risk) Valid() bool {
	switch r {
	case RiskSafe, RiskMid, RiskGreedy:
		return true
	}
	return false
}

// Archetype is a deck's high-level strategic category.
type Archetype string

// Deck archetypes.
const (
	ArchetypeBeatdown Archetype = "beatdown"
	ArchetypeControl  Archetype = "control"
	ArchetypeCycle    Archetype = "cycle"
	ArchetypeSiege    Archetype = "siege"
	ArchetypeSpell    Archetype = "spell"
	ArchetypeTempo    Archetype = "tempo"
)

// Valid reports whether the archetype is known.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeBeatdown, ArchetypeControl, ArchetypeCycle,
		ArchetypeSiege, ArchetypeSpell, ArchetypeTempo:
		return true
	}
	return false
}

// Playstyle is a tag used to match quiz answers against deck characteristics.
type Playstyle string

// Playstyle tags.
const (
	PlaystyleAggro   Playstyle = "aggro"
	PlaystyleControl Playstyle = "control"
	PlaystyleBridge  Playstyle = "bridge"
	PlaystyleSpell   Playstyle = "spell"
	PlaystyleCycle   Playstyle = "cycle"
)

// CollectionCard is one owned card in a player's collection.
type CollectionCard struct {
	Key   string `json:"key"`
	Level int    `json:"level"`
}

// PlayerProfile describes the player a recommendation is computed for.
// Built from an external data source per request; immutable within a
// scoring call.
type PlayerProfile struct {
	Tag        string           `json:"tag"`
	Name       string           `json:"name"`
	Trophies   int              `json:"trophies"`
	Arena      string           `json:"arena"`
	Collection []CollectionCard `json:"collection"`
}

// OwnedLevels indexes the collection by card key.
func (p PlayerProfile) OwnedLevels() map[string]int {
	owned := make(map[string]int, len(p.Collection))
	for _, c := range p.Collection {
		owned[c.Key] = c.Level
	}
	return owned
}

// QuizResponse captures the playstyle quiz answers.
type QuizResponse struct {
	PreferredPace Pace    `json:"preferred_pace"`
	ComfortLevel  Comfort `json:"comfort_level"`
	RiskTolerance Risk    `json:"risk_tolerance"`
}

// DeckCard is a single card slot in a deck definition.
type DeckCard struct {
	Name             string  `json:"name"`
	Key              string  `json:"key"`
	LevelRequirement int     `json:"level_requirement"`
	Elixir           float64 `json:"elixir"`
}

// TrophyRange is an inclusive [Min,Max] trophy band a deck is tuned for.
type TrophyRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeckCardCount is the fixed number of cards in a deck.
const DeckCardCount = 8

// DeckDefinition is a static catalog entry describing one recommendable deck.
type DeckDefinition struct {
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Archetype     Archetype   `json:"archetype"`
	TrophyRange   TrophyRange `json:"trophy_range"`
	Playstyles    []Playstyle `json:"playstyles"`
	Cards         []DeckCard  `json:"cards"`
	AverageElixir float64     `json:"average_elixir"`
}

// HasPlaystyle reports whether the deck carries the given playstyle tag.
func (d DeckDefinition) HasPlaystyle(tag Playstyle) bool {
	for _, p := range d.Playstyles {
		if p == tag {
			return true
		}
	}
	return false
}

// FeedbackPreferences carries optional per-request weight overrides.
// A nil pointer field means "no override for this factor".
type FeedbackPreferences struct {
	CollectionWeight *float64    `json:"collection_weight,omitempty"`
	TrophiesWeight   *float64    `json:"trophies_weight,omitempty"`
	PlaystyleWeight  *float64    `json:"playstyle_weight,omitempty"`
	DifficultyWeight *float64    `json:"difficulty_weight,omitempty"`
	PreferArchetypes []Archetype `json:"prefer_archetypes,omitempty"`
	AvoidArchetypes  []Archetype `json:"avoid_archetypes,omitempty"`
}

// BattleArchetypeAggregate summarizes recent opponent archetype exposure.
type BattleArchetypeAggregate struct {
	TotalBattles      int               `json:"total_battles"`
	ArchetypeExposure map[Archetype]int `json:"archetype_exposure"`
}

// DominantExposure returns the archetype with the highest exposure and its
// share of total battles. The bool result is false when there is no signal.
func (b BattleArchetypeAggregate) DominantExposure() (Archetype, float64, bool) {
	if b.TotalBattles <= 0 || len(b.ArchetypeExposure) == 0 {
		return "", 0, false
	}
	var best Archetype
	bestCount := -1
	for arch, count := range b.ArchetypeExposure {
		if count > bestCount || (count == bestCount && arch < best) {
			best = arch
			bestCount = count
		}
	}
	return best, float64(bestCount) / float64(b.TotalBattles), true
}

// ScoreBreakdown holds the per-factor sub-scores, each in [0,100].
type ScoreBreakdown struct {
	Collection int `json:"collection"`
	Trophies   int `json:"trophies"`
	Playstyle  int `json:"playstyle"`
	Difficulty int `json:"difficulty"`
}

// DeckScore is the scored result for a single deck. Derived per request,
// never persisted by the scoring core.
type DeckScore struct {
	Deck      DeckDefinition `json:"deck"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Notes     []string       `json:"notes"`
}

// RecommendationRequest bundles everything the ranking pass needs.
type RecommendationRequest struct {
	Profile         PlayerProfile             `json:"player"`
	Quiz            QuizResponse              `json:"quiz"`
	Feedback        *FeedbackPreferences      `json:"feedback,omitempty"`
	Battles         *BattleArchetypeAggregate `json:"battles,omitempty"`
	VariantOverride string                    `json:"experiment_variant,omitempty"`
	UserID          string                    `json:"user_id,omitempty"`
	SessionID       string                    `json:"session_id,omitempty"`
}

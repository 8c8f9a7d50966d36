// Package scoring computes a 0-100 fit score for one deck against a player.
//
// ScoreDeck is a pure function: no I/O, no clock, no randomness. Any
// structurally valid deck/player/quiz combination yields a score; there is
// no "cannot score" outcome.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/weights"
)

// Scoring constants. The difficulty floor and the trophy decay range are
// tunable knobs kept at their historical values for behavioral
// compatibility; they carry no deeper derivation.
const (
	maxScore = 100

	trophyDecayRange = 400.0

	difficultyFloor = 40.0

	paceMatchPoints    = 40.0
	comfortMatchPoints = 40.0
	riskMatchPoints    = 20.0
)

// Nominal difficulty per archetype.
var archetypeDifficulty = map[model.Archetype]float64{
	model.ArchetypeBeatdown: 60,
	model.ArchetypeControl:  70,
	model.ArchetypeCycle:    80,
	model.ArchetypeSiege:    90,
	model.ArchetypeSpell:    75,
	model.ArchetypeTempo:    65,
}

// Target difficulty per risk tolerance.
var riskTargetDifficulty = map[model.Risk]float64{
	model.RiskSafe:   60,
	model.RiskMid:    75,
	model.RiskGreedy: 90,
}

// paceTag maps a quiz pace answer to the playstyle tag it favors.
var paceTag = map[model.Pace]model.Playstyle{
	model.PaceAggro:    model.PlaystyleAggro,
	model.PaceBalanced: model.PlaystyleBridge,
	model.PaceControl:  model.PlaystyleControl,
}

// Input bundles the player-side facts the scorer needs.
type Input struct {
	Profile model.PlayerProfile
	Quiz    model.QuizResponse
}

// ScoreDeck scores a single deck for a player using the resolved weights.
func ScoreDeck(deck model.DeckDefinition, in Input, w weights.Weights) model.DeckScore {
	collection, collectionNote := collectionScore(deck, in.Profile)
	trophies := trophyScore(deck.TrophyRange, in.Profile.Trophies)
	playstyle := playstyleScore(deck, in.Quiz)
	difficulty := difficultyScore(deck.Archetype, in.Quiz.RiskTolerance)

	composite := collection*w.Collection +
		trophies*w.Trophies +
		playstyle*w.Playstyle +
		difficulty*w.Difficulty
	composite = math.Max(0, math.Min(maxScore, composite))

	var notes []string
	if collectionNote != "" {
		notes = append(notes, collectionNote)
	}
	if trophies < 60 {
		notes = append(notes, "Trophy count is outside this deck's comfort zone.")
	}
	if playstyle < 50 {
		notes = append(notes, "Limited playstyle alignment; expect a learning curve.")
	}

	return model.DeckScore{
		Deck:  deck,
		Score: int(math.Round(composite)),
		Breakdown: model.ScoreBreakdown{
			Collection: int(math.Round(collection)),
			Trophies:   int(math.Round(trophies)),
			Playstyle:  int(math.Round(playstyle)),
			Difficulty: int(math.Round(difficulty)),
		},
		Notes: notes,
	}
}

// collectionScore awards one point per ready card, half a point per owned
// but underleveled card (more than one level short of the requirement),
// and nothing for missing cards. The note combines every gap in one line.
func collectionScore(deck model.DeckDefinition, profile model.PlayerProfile) (float64, string) {
	owned := profile.OwnedLevels()

	var points float64
	var missing []string
	var underleveled []string

	for _, card := range deck.Cards {
		level, ok := owned[card.Key]
		switch {
		case !ok:
			missing = append(missing, card.Name)
		case level >= card.LevelRequirement-1:
			points++
		default:
			points += 0.5
			underleveled = append(underleveled, fmt.Sprintf("%s needs level %d", card.Name, card.LevelRequirement))
		}
	}

	score := points / model.DeckCardCount * maxScore

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "Missing: "+strings.Join(missing, ", "))
	}
	if len(underleveled) > 0 {
		parts = append(parts, "Underleveled: "+strings.Join(underleveled, ", "))
	}

	return score, strings.Join(parts, ". ")
}

// trophyScore is 100 inside the deck's trophy band and decays linearly to
// zero at trophyDecayRange outside either bound.
func trophyScore(band model.TrophyRange, trophies int) float64 {
	if trophies >= band.Min && trophies <= band.Max {
		return maxScore
	}

	var distance float64
	if trophies < band.Min {
		distance = float64(band.Min - trophies)
	} else {
		distance = float64(trophies - band.Max)
	}

	penalty := math.Min(1, distance/trophyDecayRange)
	return (1 - penalty) * maxScore
}

// playstyleScore sums pace, comfort, and risk matches.
func playstyleScore(deck model.DeckDefinition, quiz model.QuizResponse) float64 {
	var score float64

	if tag, ok := paceTag[quiz.PreferredPace]; ok && deck.HasPlaystyle(tag) {
		score += paceMatchPoints
	}
	if deck.HasPlaystyle(model.Playstyle(quiz.ComfortLevel)) {
		score += comfortMatchPoints
	}
	if riskMatches(deck.Archetype, quiz.RiskTolerance) {
		score += riskMatchPoints
	}

	return math.Max(0, math.Min(maxScore, score))
}

// riskMatches pairs cautious players with control decks and greedy players
// with beatdown; mid tolerance matches everything.
func riskMatches(archetype model.Archetype, risk model.Risk) bool {
	switch risk {
	case model.RiskSafe:
		return archetype == model.ArchetypeControl
	case model.RiskGreedy:
		return archetype == model.ArchetypeBeatdown
	case model.RiskMid:
		return true
	}
	return false
}

// difficultyScore measures how far the deck's nominal difficulty sits from
// the player's risk-derived target. A mismatch is a soft signal, so the
// result never drops below the floor.
func difficultyScore(archetype model.Archetype, risk model.Risk) float64 {
	nominal, ok := archetypeDifficulty[archetype]
	if !ok {
		nominal = 70
	}
	target, ok := riskTargetDifficulty[risk]
	if !ok {
		target = 75
	}

	score := maxScore - math.Abs(nominal-target)
	return math.Max(difficultyFloor, score)
}

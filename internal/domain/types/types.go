// Package types contains read-model shapes shared across the application.
package types

import (
	"time"

	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/weights"
)

// Recommendation is the read shape returned for one recommendation pass.
type Recommendation struct {
	SessionID string            `json:"session_id"`
	Variant   string            `json:"variant"`
	Weights   weights.Weights   `json:"weights"`
	Decks     []model.DeckScore `json:"decks"`
	Notes     []string          `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FeedbackSubmission ties a player's reaction back to a recommendation
// session. Rating runs from -1 (bad fit) to 1 (great fit).
type FeedbackSubmission struct {
	SessionID string  `json:"session_id"`
	DeckSlug  string  `json:"deck_slug,omitempty"`
	Rating    float64 `json:"rating"`
	Notes     string  `json:"notes,omitempty"`
}

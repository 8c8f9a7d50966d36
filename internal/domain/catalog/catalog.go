// Package catalog provides the static, read-only deck catalog that forms
// the recommendation universe. It is loaded once at process start and only
// ever read afterwards.
package catalog

import (
	"fmt"
	"math"

	"github.com/okian/loadout/internal/domain/model"
)

// elixirTolerance is the allowed gap between a deck's declared average
// elixir and the mean of its card costs. Enforced at startup, not at
// request time.
const elixirTolerance = 0.1

// Provider serves the in-memory deck catalog.
type Provider struct {
	decks []model.DeckDefinition
}

// NewProvider creates a provider over the built-in catalog.
func NewProvider() *Provider {
	return &Provider{decks: defaultDecks()}
}

// NewProviderWithDecks creates a provider over a caller-supplied catalog.
// Used by tests and by deployments shipping their own deck lists.
func NewProviderWithDecks(decks []model.DeckDefinition) *Provider {
	return &Provider{decks: decks}
}

// Decks returns the catalog in declaration order. The returned slice is a
// copy; callers cannot mutate the catalog through it.
func (p *Provider) Decks() []model.DeckDefinition {
	out := make([]model.DeckDefinition, len(p.decks))
	copy(out, p.decks)
	return out
}

// Len returns the number of catalog entries.
func (p *Provider) Len() int {
	return len(p.decks)
}

// Validate lints every catalog entry. It runs once at startup so a broken
// catalog fails the process instead of corrupting request-time scoring.
func (p *Provider) Validate() error {
	seen := make(map[string]bool, len(p.decks))
	for _, deck := range p.decks {
		if deck.Slug == "" {
			return fmt.Errorf("%w: empty slug", ErrInvalidDeck)
		}
		if seen[deck.Slug] {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidDeck, deck.Slug)
		}
		seen[deck.Slug] = true

		if !deck.Archetype.Valid() {
			return fmt.Errorf("%w: deck %q has unknown archetype %q", ErrInvalidDeck, deck.Slug, deck.Archetype)
		}
		if deck.TrophyRange.Min > deck.TrophyRange.Max {
			return fmt.Errorf("%w: deck %q has inverted trophy range", ErrInvalidDeck, deck.Slug)
		}
		if len(deck.Playstyles) == 0 {
			return fmt.Errorf("%w: deck %q has no playstyles", ErrInvalidDeck, deck.Slug)
		}
		if len(deck.Cards) != model.DeckCardCount {
			return fmt.Errorf("%w: deck %q has %d cards, want %d", ErrInvalidDeck, deck.Slug, len(deck.Cards), model.DeckCardCount)
		}
		if deck.AverageElixir <= 0 {
			return fmt.Errorf("%w: deck %q has non-positive average elixir", ErrInvalidDeck, deck.Slug)
		}

		var total float64
		for _, card := range deck.Cards {
			if card.Key == "" || card.Name == "" {
				return fmt.Errorf("%w: deck %q has a card without key or name", ErrInvalidDeck, deck.Slug)
			}
			if card.LevelRequirement < 0 {
				return fmt.Errorf("%w: deck %q card %q has negative level requirement", ErrInvalidDeck, deck.Slug, card.Key)
			}
			total += card.Elixir
		}
		mean := total / model.DeckCardCount
		if math.Abs(mean-deck.AverageElixir) > elixirTolerance {
			return fmt.Errorf("%w: deck %q declares average elixir %.2f but cards average %.2f",
				ErrInvalidDeck, deck.Slug, deck.AverageElixir, mean)
		}
	}
	return nil
}

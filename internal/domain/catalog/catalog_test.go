package catalog_test

import (
	"testing"

	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProvider(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		provider := catalog.NewProvider()

		Convey("Then it should pass its own lint", func() {
			So(provider.Validate(), ShouldBeNil)
		})

		Convey("Then it should hold the four sample decks in order", func() {
			decks := provider.Decks()
			So(decks, ShouldHaveLength, 4)
			So(decks[0].Slug, ShouldEqual, "mega-knight-miner-control")
			So(decks[1].Slug, ShouldEqual, "hog-cycle")
			So(decks[2].Slug, ShouldEqual, "golem-beatdown")
			So(decks[3].Slug, ShouldEqual, "xbow-siege")
		})

		Convey("Then every deck should carry exactly eight cards", func() {
			for _, deck := range provider.Decks() {
				So(deck.Cards, ShouldHaveLength, model.DeckCardCount)
			}
		})

		Convey("When mutating the returned slice", func() {
			decks := provider.Decks()
			decks[0].Slug = "mutated"

			Convey("Then the catalog itself should be untouched", func() {
				So(provider.Decks()[0].Slug, ShouldEqual, "mega-knight-miner-control")
			})
		})
	})

	Convey("Given broken catalog entries", t, func() {
		base := catalog.NewProvider().Decks()[0]

		Convey("When a deck has the wrong card count", func() {
			deck := base
			deck.Cards = deck.Cards[:7]
			p := catalog.NewProviderWithDecks([]model.DeckDefinition{deck})

			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When a deck has an inverted trophy range", func() {
			deck := base
			deck.TrophyRange = model.TrophyRange{Min: 8000, Max: 4500}
			p := catalog.NewProviderWithDecks([]model.DeckDefinition{deck})

			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When a deck has no playstyles", func() {
			deck := base
			deck.Playstyles = nil
			p := catalog.NewProviderWithDecks([]model.DeckDefinition{deck})

			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When the declared average elixir drifts past tolerance", func() {
			deck := base
			deck.AverageElixir = 5.0
			p := catalog.NewProviderWithDecks([]model.DeckDefinition{deck})

			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When two decks share a slug", func() {
			p := catalog.NewProviderWithDecks([]model.DeckDefinition{base, base})

			So(p.Validate(), ShouldNotBeNil)
		})
	})
}

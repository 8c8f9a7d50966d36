package ranking_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// megaKnightPlayer owns every mega knight deck card at required level and
// sits squarely inside the deck's trophy band.
func megaKnightPlayer() model.PlayerProfile {
	deck := catalog.NewProvider().Decks()[0]
	collection := make([]model.CollectionCard, len(deck.Cards))
	for i, c := range deck.Cards {
		collection[i] = model.CollectionCard{Key: c.Key, Level: c.LevelRequirement}
	}
	return model.PlayerProfile{
		Tag:        "#MATCH",
		Trophies:   5000,
		Collection: collection,
	}
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given a ranker over the built-in catalog", t, func() {
		ranker := ranking.NewRanker()
		ctx := context.Background()

		Convey("When a well-matched player asks for a recommendation", func() {
			req := model.RecommendationRequest{
				Profile: megaKnightPlayer(),
				Quiz: model.QuizResponse{
					PreferredPace: model.PaceBalanced,
					ComfortLevel:  model.ComfortCycle,
					RiskTolerance: model.RiskMid,
				},
				VariantOverride: "control",
			}
			result := ranker.Rank(ctx, req)

			Convey("Then the mega knight deck should come first with a high score", func() {
				So(result.Decks, ShouldNotBeEmpty)
				So(result.Decks[0].Deck.Slug, ShouldEqual, "mega-knight-miner-control")
				So(result.Decks[0].Score, ShouldBeGreaterThanOrEqualTo, 80)
			})

			Convey("Then at most three decks should be returned in descending order", func() {
				So(len(result.Decks), ShouldBeLessThanOrEqualTo, 3)
				for i := 1; i < len(result.Decks); i++ {
					So(result.Decks[i-1].Score, ShouldBeGreaterThanOrEqualTo, result.Decks[i].Score)
				}
			})

			Convey("Then repeated passes should be identical", func() {
				again := ranker.Rank(ctx, req)
				So(again, ShouldResemble, result)
			})
		})

		Convey("When the meta-aware variant is forced", func() {
			req := model.RecommendationRequest{
				Profile: megaKnightPlayer(),
				Quiz: model.QuizResponse{
					PreferredPace: model.PaceBalanced,
					ComfortLevel:  model.ComfortCycle,
					RiskTolerance: model.RiskMid,
				},
				VariantOverride: "meta-aware",
			}
			result := ranker.Rank(ctx, req)

			Convey("Then the result should carry the variant and its note", func() {
				So(result.Variant, ShouldEqual, "meta-aware")

				found := false
				for _, note := range result.Notes {
					if note == "Using meta-aware weighting based on recent opponent exposure." {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When feedback prefers and avoids archetypes", func() {
			req := model.RecommendationRequest{
				Profile: megaKnightPlayer(),
				Quiz: model.QuizResponse{
					PreferredPace: model.PaceBalanced,
					ComfortLevel:  model.ComfortCycle,
					RiskTolerance: model.RiskMid,
				},
				Feedback: &model.FeedbackPreferences{
					PreferArchetypes: []model.Archetype{model.ArchetypeControl},
					AvoidArchetypes:  []model.Archetype{model.ArchetypeCycle},
				},
				VariantOverride: "control",
			}
			result := ranker.Rank(ctx, req)

			Convey("Then preference notes should be advisory only", func() {
				// Ordering matches the no-feedback pass exactly.
				plain := ranker.Rank(ctx, model.RecommendationRequest{
					Profile:         req.Profile,
					Quiz:            req.Quiz,
					VariantOverride: "control",
				})
				So(len(result.Decks), ShouldEqual, len(plain.Decks))
				for i := range result.Decks {
					So(result.Decks[i].Deck.Slug, ShouldEqual, plain.Decks[i].Deck.Slug)
					So(result.Decks[i].Score, ShouldEqual, plain.Decks[i].Score)
				}

				So(noteContaining(result.Decks[0].Notes, "preferred control archetype"), ShouldBeTrue)
			})
		})
	})
}

func TestRanker_TieBreak(t *testing.T) {
	Convey("Given two decks that score identically", t, func() {
		decks := catalog.NewProvider().Decks()
		twin := decks[1]
		twin.Slug = "hog-cycle-twin"
		provider := catalog.NewProviderWithDecks([]model.DeckDefinition{decks[1], twin})

		ranker := ranking.NewRanker(ranking.WithCatalog(provider))

		Convey("When a player is ranked against them", func() {
			result := ranker.Rank(context.Background(), model.RecommendationRequest{
				Profile: model.PlayerProfile{Trophies: 5000},
				Quiz: model.QuizResponse{
					PreferredPace: model.PaceAggro,
					ComfortLevel:  model.ComfortCycle,
					RiskTolerance: model.RiskMid,
				},
				VariantOverride: "control",
			})

			Convey("Then catalog declaration order should break the tie", func() {
				So(result.Decks, ShouldHaveLength, 2)
				So(result.Decks[0].Score, ShouldEqual, result.Decks[1].Score)
				So(result.Decks[0].Deck.Slug, ShouldEqual, "hog-cycle")
				So(result.Decks[1].Deck.Slug, ShouldEqual, "hog-cycle-twin")
			})
		})
	})
}

func TestRanker_MaxResults(t *testing.T) {
	Convey("Given a ranker capped at one result", t, func() {
		ranker := ranking.NewRanker(ranking.WithMaxResults(1))

		Convey("When ranked", func() {
			result := ranker.Rank(context.Background(), model.RecommendationRequest{
				Profile: megaKnightPlayer(),
				Quiz: model.QuizResponse{
					PreferredPace: model.PaceBalanced,
					ComfortLevel:  model.ComfortCycle,
					RiskTolerance: model.RiskMid,
				},
				VariantOverride: "control",
			})

			Convey("Then only the best deck should be returned", func() {
				So(result.Decks, ShouldHaveLength, 1)
				So(result.Decks[0].Deck.Slug, ShouldEqual, "mega-knight-miner-control")
			})
		})
	})
}

func noteContaining(notes []string, sub string) bool {
	for _, note := range notes {
		if strings.Contains(note, sub) {
			return true
		}
	}
	return false
}

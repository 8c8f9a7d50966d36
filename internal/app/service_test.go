package app_test

import (
	"context"
	"testing"

	"github.com/okian/loadout/internal/app"
	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	"github.com/okian/loadout/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func recommendationRequest() model.RecommendationRequest {
	deck := catalog.NewProvider().Decks()[0]
	collection := make([]model.CollectionCard, len(deck.Cards))
	for i, c := range deck.Cards {
		collection[i] = model.CollectionCard{Key: c.Key, Level: c.LevelRequirement}
	}
	return model.RecommendationRequest{
		Profile: model.PlayerProfile{Tag: "#PLAYER", Trophies: 5000, Collection: collection},
		Quiz: model.QuizResponse{
			PreferredPace: model.PaceBalanced,
			ComfortLevel:  model.ComfortCycle,
			RiskTolerance: model.RiskMid,
		},
		VariantOverride: "control",
	}
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a default service", t, func() {
		svc := app.New()
		ctx := context.Background()

		Convey("When a recommendation is requested", func() {
			rec, err := svc.Recommend(ctx, recommendationRequest())

			Convey("Then it should carry a session and ordered decks", func() {
				So(err, ShouldBeNil)
				So(rec.SessionID, ShouldNotBeEmpty)
				So(rec.Variant, ShouldEqual, "control")
				So(len(rec.Decks), ShouldBeLessThanOrEqualTo, 3)
				So(rec.Decks[0].Deck.Slug, ShouldEqual, "mega-knight-miner-control")
			})

			Convey("Then two requests should open distinct sessions", func() {
				again, err := svc.Recommend(ctx, recommendationRequest())
				So(err, ShouldBeNil)
				So(again.SessionID, ShouldNotEqual, rec.SessionID)
			})
		})
	})
}

func TestService_Feedback(t *testing.T) {
	Convey("Given a service with one recommendation served", t, func() {
		svc := app.New()
		ctx := context.Background()

		rec, err := svc.Recommend(ctx, recommendationRequest())
		So(err, ShouldBeNil)

		Convey("When feedback references the open session", func() {
			err := svc.Feedback(ctx, types.FeedbackSubmission{
				SessionID: rec.SessionID,
				Rating:    1,
				DeckSlug:  rec.Decks[0].Deck.Slug,
			})

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When feedback references an unknown session", func() {
			err := svc.Feedback(ctx, types.FeedbackSubmission{
				SessionID: "no-such-session",
				Rating:    -1,
			})

			Convey("Then it should fail with the session sentinel", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "not found")
			})
		})
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given a default service", t, func() {
		svc := app.New()

		Convey("When stats are collected", func() {
			stats := svc.GetStats()

			Convey("Then the catalog and session gauges should be present", func() {
				So(stats["catalog_decks"], ShouldEqual, 4)
				So(stats["active_sessions"], ShouldEqual, 0)
				So(stats, ShouldContainKey, "uptime_seconds")
				So(stats, ShouldContainKey, "goroutines")
			})
		})

		Convey("When decks are listed", func() {
			decks := svc.Decks(context.Background())

			Convey("Then the whole catalog should come back", func() {
				So(decks, ShouldHaveLength, 4)
			})
		})
	})
}

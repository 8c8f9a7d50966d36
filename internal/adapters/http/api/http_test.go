package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/loadout/internal/adapters/http/api"
	"github.com/okian/loadout/internal/adapters/ratelimit"
	"github.com/okian/loadout/internal/app"
	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestMux() *http.ServeMux {
	svc := app.New()
	server := api.NewServer(svc, svc)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func recommendBody() []byte {
	deck := catalog.NewProvider().Decks()[0]
	collection := make([]model.CollectionCard, len(deck.Cards))
	for i, c := range deck.Cards {
		collection[i] = model.CollectionCard{Key: c.Key, Level: c.LevelRequirement}
	}
	body, _ := json.Marshal(model.RecommendationRequest{
		Profile: model.PlayerProfile{Tag: "#PLAYER", Trophies: 5000, Collection: collection},
		Quiz: model.QuizResponse{
			PreferredPace: model.PaceBalanced,
			ComfortLevel:  model.ComfortCycle,
			RiskTolerance: model.RiskMid,
		},
		VariantOverride: "control",
	})
	return body
}

func TestRecommendEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux()

		Convey("When a valid recommendation request is posted", func() {
			r := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader(recommendBody()))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			Convey("Then the response should hold a session and ranked decks", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var rec api.Recommendation
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.SessionID, ShouldNotBeEmpty)
				So(rec.Variant, ShouldEqual, "control")
				So(len(rec.Decks), ShouldBeLessThanOrEqualTo, 3)
				So(rec.Decks[0].Deck.Slug, ShouldEqual, "mega-knight-miner-control")
				So(rec.Decks[0].Score, ShouldBeGreaterThanOrEqualTo, 80)
			})
		})

		Convey("When the body is not JSON", func() {
			r := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader([]byte("not json")))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the quiz carries an unknown pace", func() {
			body := []byte(`{"player":{"trophies":5000},"quiz":{"preferred_pace":"turbo","comfort_level":"cycle","risk_tolerance":"mid"}}`)
			r := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is GET", func() {
			r := httptest.NewRequest(http.MethodGet, "/api/recommend", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestFeedbackEndpoint(t *testing.T) {
	Convey("Given the API routes with one recommendation served", t, func() {
		svc := app.New()
		server := api.NewServer(svc, svc)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		r := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader(recommendBody()))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		So(w.Code, ShouldEqual, http.StatusOK)

		var rec api.Recommendation
		So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)

		Convey("When feedback references the session", func() {
			body := fmt.Sprintf(`{"session_id":%q,"rating":0.5,"deck_slug":"mega-knight-miner-control"}`, rec.SessionID)
			r := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader([]byte(body)))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When feedback references an unknown session", func() {
			body := []byte(`{"session_id":"ghost","rating":0.5}`)
			r := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			Convey("Then the lookup should 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the rating is out of range", func() {
			body := fmt.Sprintf(`{"session_id":%q,"rating":7}`, rec.SessionID)
			r := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader([]byte(body)))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the session id is missing", func() {
			body := []byte(`{"rating":0.5}`)
			r := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestDecksEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux()

		Convey("When the catalog is requested", func() {
			r := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			Convey("Then every deck should be listed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Decks []model.DeckDefinition `json:"decks"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Decks, ShouldHaveLength, 4)
			})
		})
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	Convey("Given rate-limited routes with a budget of two", t, func() {
		limiter := ratelimit.New(ratelimit.Policy{Limit: 2, Window: time.Minute})
		handler := api.RateLimitMiddleware(newTestMux(), limiter, api.RateLimitConfig{
			Paths:       []string{"/api/decks"},
			BypassToken: "hunter2",
		})

		get := func(token string) *httptest.ResponseRecorder {
			r := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
			r.Header.Set("X-Forwarded-For", "1.2.3.4")
			if token != "" {
				r.Header.Set("X-Internal-Token", token)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			return w
		}

		Convey("When the budget is spent", func() {
			first := get("")
			second := get("")
			third := get("")

			Convey("Then the third request should be rejected with headers", func() {
				So(first.Code, ShouldEqual, http.StatusOK)
				So(first.Header().Get("X-RateLimit-Limit"), ShouldEqual, "2")
				So(first.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "1")

				So(second.Code, ShouldEqual, http.StatusOK)
				So(third.Code, ShouldEqual, http.StatusTooManyRequests)
				So(third.Header().Get("Retry-After"), ShouldNotBeEmpty)
				So(third.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "0")
			})

			Convey("And the internal token should still get through", func() {
				bypassed := get("hunter2")
				So(bypassed.Code, ShouldEqual, http.StatusOK)
				So(bypassed.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "2")
			})
		})

		Convey("When an unlimited path is requested", func() {
			r := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader(recommendBody()))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			Convey("Then no rate limit headers should appear", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("X-RateLimit-Limit"), ShouldBeEmpty)
			})
		})
	})
}

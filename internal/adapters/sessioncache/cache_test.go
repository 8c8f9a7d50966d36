package sessioncache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/loadout/internal/adapters/sessioncache"
	"github.com/okian/loadout/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSession(id string) sessioncache.Session {
	return sessioncache.Session{
		ID:        id,
		PlayerTag: "#PLAYER",
		Variant:   "control",
		Weights:   weights.Baseline(),
		DeckSlugs: []string{"mega-knight-miner-control", "hog-cycle"},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCache(t *testing.T) {
	Convey("Given an in-process session cache", t, func() {
		cache := sessioncache.New()
		ctx := context.Background()

		Convey("When a session is stored", func() {
			s := sampleSession("abc-123")
			So(cache.Put(ctx, s), ShouldBeNil)

			Convey("Then it should come back intact", func() {
				got, ok := cache.Get(ctx, "abc-123")
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, s)
			})
		})

		Convey("When an unknown ID is requested", func() {
			_, ok := cache.Get(ctx, "missing")

			Convey("Then the lookup should miss", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a cache bounded to two entries", t, func() {
		cache := sessioncache.New(sessioncache.WithSize(2))
		ctx := context.Background()

		Convey("When a third session is added", func() {
			for i := 0; i < 3; i++ {
				So(cache.Put(ctx, sampleSession(fmt.Sprintf("s-%d", i))), ShouldBeNil)
			}

			Convey("Then the oldest should be evicted", func() {
				So(cache.Len(), ShouldEqual, 2)
				_, ok := cache.Get(ctx, "s-0")
				So(ok, ShouldBeFalse)
				_, ok = cache.Get(ctx, "s-2")
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Given a cache with a very short TTL", t, func() {
		cache := sessioncache.New(sessioncache.WithTTL(30 * time.Millisecond))
		ctx := context.Background()

		Convey("When the TTL elapses", func() {
			So(cache.Put(ctx, sampleSession("short-lived")), ShouldBeNil)
			time.Sleep(80 * time.Millisecond)

			Convey("Then the session should be gone", func() {
				_, ok := cache.Get(ctx, "short-lived")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

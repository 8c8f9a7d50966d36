package config_test

import (
	"context"
	"testing"

	"github.com/okian/loadout/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfig_Load(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		t.Setenv("LOADOUT_CONFIG", "")

		cfg, err := config.Load(context.Background())

		Convey("Then defaults should survive the loading pass", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.RateLimitRequests, ShouldEqual, 60)
		})
	})

	Convey("Given env overrides", t, func() {
		t.Setenv("LOADOUT_CONFIG", "")
		t.Setenv("LOADOUT_ADDR", ":9090")
		t.Setenv("LOADOUT_REDIS_ADDR", "localhost:6379")
		t.Setenv("LOADOUT_RATE_LIMIT_REQUESTS", "10")

		cfg, err := config.Load(context.Background())

		Convey("Then env values should take precedence over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.RedisAddr, ShouldEqual, "localhost:6379")
			So(cfg.RateLimitRequests, ShouldEqual, 10)
		})
	})

	Convey("Given an invalid rate limit", t, func() {
		t.Setenv("LOADOUT_CONFIG", "")
		t.Setenv("LOADOUT_RATE_LIMIT_REQUESTS", "0")

		_, err := config.Load(context.Background())

		Convey("Then loading should fail with the sentinel error", func() {
			So(err, ShouldEqual, config.ErrBadRateLimit)
		})
	})
}

package analytics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/okian/loadout/internal/adapters/analytics"
	"github.com/okian/loadout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestNoopSink(t *testing.T) {
	Convey("Given a noop sink", t, func() {
		sink := analytics.NoopSink{}

		Convey("Then emitting should be a harmless no-op", func() {
			So(func() {
				sink.Emit(context.Background(), analytics.Event{Name: "experiment_exposure"})
			}, ShouldNotPanic)
		})
	})
}

func TestAsyncEmitter(t *testing.T) {
	Convey("Given an async emitter backed by a test collector", t, func() {
		var mu sync.Mutex
		received := []string{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			received = append(received, r.Header.Get("Content-Type"))
			mu.Unlock()
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		emitter := analytics.NewAsyncEmitter(srv.URL, analytics.WithBufferSize(16))
		defer emitter.Close()

		Convey("When emitting events", func() {
			emitter.Emit(context.Background(), analytics.Event{
				Name:       "experiment_assignment",
				Properties: map[string]any{"variant": "control"},
			})

			Convey("Then delivery should happen asynchronously", func() {
				deadline := time.Now().Add(2 * time.Second)
				for {
					mu.Lock()
					n := len(received)
					mu.Unlock()
					if n > 0 || time.Now().After(deadline) {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}

				mu.Lock()
				defer mu.Unlock()
				So(received, ShouldHaveLength, 1)
				So(received[0], ShouldEqual, "application/json")
			})
		})

		Convey("When the collector is unreachable", func() {
			broken := analytics.NewAsyncEmitter("http://127.0.0.1:1/events", analytics.WithBufferSize(4))
			defer broken.Close()

			Convey("Then emission should never block or panic", func() {
				So(func() {
					for i := 0; i < 100; i++ {
						broken.Emit(context.Background(), analytics.Event{Name: "experiment_exposure"})
					}
				}, ShouldNotPanic)
			})
		})
	})
}

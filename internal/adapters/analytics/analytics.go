// Package analytics delivers fire-and-forget product events to an external
// collector.
//
// Emission must never block or fail the request path: the async emitter
// drops events under backpressure and swallows sink failures after logging
// them. Consumers that do not care (tests, unset config) use NoopSink.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// Event is a single analytics record.
type Event struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	TS         time.Time      `json:"ts"`
}

// Sink accepts analytics events. Implementations must return quickly and
// must not surface delivery failures to callers.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// NoopSink discards every event.
type NoopSink struct{}

// Emit discards the event.
func (NoopSink) Emit(_ context.Context, _ Event) {}

// AsyncEmitter buffers events on a bounded channel and posts them to an
// HTTP collector from a single drain goroutine. Events are dropped, and
// counted, when the buffer is full or the collector errors.
type AsyncEmitter struct {
	endpoint   string
	client     *http.Client
	bufferSize int
	events     chan Event
	log        logger.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsyncEmitter creates and starts an emitter targeting endpoint.
func NewAsyncEmitter(endpoint string, opts ...Option) *AsyncEmitter {
	e := &AsyncEmitter{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: defaultRequestTimeout},
		bufferSize: defaultBufferSize,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}
	e.events = make(chan Event, e.bufferSize)

	if e.log == nil {
		e.log = logger.Get().Named("analytics")
	}

	go e.drain()

	return e
}

// Emit enqueues the event without blocking. A full buffer drops the event.
func (e *AsyncEmitter) Emit(_ context.Context, ev Event) {
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	select {
	case e.events <- ev:
	default:
		metrics.RecordAnalyticsDropped()
	}
}

// Close stops the drain goroutine. Buffered events still in the channel
// are abandoned; this sink is lossy by contract.
func (e *AsyncEmitter) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}

func (e *AsyncEmitter) drain() {
	for {
		select {
		case <-e.done:
			return
		case ev := <-e.events:
			e.post(ev)
		}
	}
}

func (e *AsyncEmitter) post(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		metrics.RecordAnalyticsDropped()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		metrics.RecordAnalyticsDropped()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		metrics.RecordAnalyticsDropped()
		metrics.RecordErrorByComponent("analytics", "post_failed")
		e.log.Debug(ctx, "analytics delivery failed", logger.String("event", ev.Name), logger.Error(err))
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.RecordAnalyticsDropped()
		metrics.RecordErrorByComponent("analytics", "collector_rejected")
		return
	}
	metrics.RecordAnalyticsEmitted()
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/okian/loadout/internal/adapters/analytics"
	"github.com/okian/loadout/internal/adapters/http/api"
	"github.com/okian/loadout/internal/adapters/ratelimit"
	"github.com/okian/loadout/internal/adapters/sessioncache"
	"github.com/okian/loadout/internal/app"
	"github.com/okian/loadout/internal/config"
	"github.com/okian/loadout/internal/domain/catalog"
	"github.com/okian/loadout/internal/domain/ranking"
	"github.com/okian/loadout/internal/domain/weights"
	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	limiterPruneInterval  = 5 * time.Minute
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// the service collects its own system gauges.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Lint the catalog before serving a single request.
	decks := catalog.NewProvider()
	if err := decks.Validate(); err != nil {
		log.Error(ctx, "deck catalog failed validation", logger.Error(err))
		return
	}

	// Shared Redis client for the rate limiter and the session cache.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis unreachable at startup; limiter and sessions degrade to in-memory", logger.Error(err))
		}
	}

	// Analytics sink: async HTTP emitter when configured, noop otherwise.
	var sink analytics.Sink = analytics.NoopSink{}
	if cfg.AnalyticsEndpoint != "" {
		emitter := analytics.NewAsyncEmitter(cfg.AnalyticsEndpoint,
			analytics.WithBufferSize(cfg.AnalyticsBuffer),
			analytics.WithLogger(log.Named("analytics")),
		)
		defer emitter.Close()
		sink = emitter
	}

	sessionOpts := []sessioncache.Option{
		sessioncache.WithSize(cfg.SessionCacheSize),
		sessioncache.WithTTL(time.Duration(cfg.SessionTTLMinutes) * time.Minute),
		sessioncache.WithLogger(log.Named("sessions")),
	}
	if redisClient != nil {
		sessionOpts = append(sessionOpts, sessioncache.WithRedis(redisClient))
	}
	sessions := sessioncache.New(sessionOpts...)

	// The memory store backs single-instance deployments and doubles as
	// the fallback during Redis outages; either way it needs pruning.
	memStore := ratelimit.NewMemoryStore()
	limiterOpts := []ratelimit.Option{
		ratelimit.WithLogger(log.Named("ratelimit")),
		ratelimit.WithStore(memStore),
		ratelimit.WithFallbackStore(memStore),
	}
	if redisClient != nil {
		limiterOpts = append(limiterOpts, ratelimit.WithStore(ratelimit.NewRedisStore(redisClient)))
	}
	policy := ratelimit.Policy{
		Limit:  cfg.RateLimitRequests,
		Window: time.Duration(cfg.RateLimitWindowMS) * time.Millisecond,
	}
	limiter := ratelimit.New(policy, limiterOpts...)

	go startLimiterPruner(ctx, memStore, policy)

	ranker := ranking.NewRanker(
		ranking.WithCatalog(decks),
		ranking.WithResolver(weights.NewResolver(
			weights.WithSink(sink),
			weights.WithLogger(log.Named("weights")),
		)),
		ranking.WithMaxResults(cfg.MaxResults),
		ranking.WithLogger(log.Named("ranking")),
	)

	svc := app.New(
		app.WithRanker(ranker),
		app.WithSessionCache(sessions),
		app.WithSink(sink),
		app.WithCatalog(decks),
		app.WithLogger(log),
	)

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	handler := api.RateLimitMiddleware(mux, limiter, api.RateLimitConfig{
		Paths:       cfg.RateLimitedPaths,
		BypassToken: cfg.RateLimitBypassToken,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startLimiterPruner drops fully refilled idle buckets from the
// in-process rate limit store.
func startLimiterPruner(ctx context.Context, store *ratelimit.MemoryStore, policy ratelimit.Policy) {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Prune(policy)
		}
	}
}

// startSystemMetricsUpdater updates system gauges on a fixed interval.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}

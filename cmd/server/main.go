package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authservice "roomalchemy/internal/auth/service"
	"roomalchemy/internal/auth/store/revocation"
	"roomalchemy/internal/auth/token"
	"roomalchemy/internal/events"
	kafkasink "roomalchemy/internal/events/sink/kafka"
	postgressink "roomalchemy/internal/events/sink/postgres"
	splunksink "roomalchemy/internal/events/sink/splunk"
	"roomalchemy/internal/imaging"
	"roomalchemy/internal/platform/config"
	"roomalchemy/internal/platform/httpserver"
	"roomalchemy/internal/platform/logger"
	"roomalchemy/internal/platform/metrics"
	redisplatform "roomalchemy/internal/platform/redis"
	"roomalchemy/internal/quota"
	quotastore "roomalchemy/internal/quota/store"
	"roomalchemy/internal/ratelimit"
	"roomalchemy/internal/ratelimit/store/window"
	"roomalchemy/internal/redesign"
	"roomalchemy/internal/stability"
	httptransport "roomalchemy/internal/transport/http"
	"roomalchemy/internal/upload"
)

const tokenIssuer = "roomalchemy"

// main wires high-level dependencies, exposes the HTTP router, and supervises
// the server and event dispatcher lifecycles. Business logic lives in the
// internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Token revocation backed by Redis when configured, process-local otherwise.
	var revocations revocation.Store = revocation.NewMemoryStore()
	redisClient, err := redisplatform.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedisStore(redisClient.Client, cfg.RevocationTTL)
		log.Info("token revocation store: redis")
	}

	tokens := token.NewService(cfg.JWTSigningKey, tokenIssuer, cfg.TokenTTL)
	auth, err := authservice.New(tokens, revocations, authservice.WithLogger(log))
	if err != nil {
		return err
	}

	quotas, err := quota.New(
		quotastore.NewMemory(cfg.QuotaWindow),
		cfg.GuestDailyQuota,
		cfg.QuotaKeyPolicy,
		quota.WithLogger(log),
	)
	if err != nil {
		return err
	}

	limiter, err := ratelimit.New(
		window.NewMemoryStore(),
		cfg.RateLimitMax,
		cfg.RateLimitWindow,
		ratelimit.WithLogger(log),
	)
	if err != nil {
		return err
	}

	sinks, closeSinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	dispatcher := events.NewDispatcher(log, cfg.SinkTimeout, sinks,
		events.WithDropHook(m.EventsDropped.Inc))
	recorder := events.NewRecorder(events.NewAggregator(), dispatcher, log,
		events.WithMetrics(m))

	transformer := stability.New(
		cfg.StabilityAPIBase,
		cfg.StabilityAPIKey,
		cfg.StabilityEngine,
		cfg.TransformTimeout,
		stability.WithLogger(log),
	)

	orchestrator, err := redesign.New(
		quotas,
		imaging.NewMetadataStripper(),
		imaging.NewScanner(log),
		transformer,
		recorder,
		redesign.WithLogger(log),
		redesign.WithAuthOptional(cfg.AuthOptional),
	)
	if err != nil {
		return err
	}

	handler := httptransport.NewHandler(
		auth,
		orchestrator,
		recorder,
		upload.NewGate(cfg.MaxUploadBytes),
		log,
	)
	router := httptransport.NewRouter(handler, auth, recorder, limiter, log,
		httptransport.RouterConfig{AuthOptional: cfg.AuthOptional})

	srv := httpserver.New(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting roomalchemy", "addr", cfg.Addr, "auth_optional", cfg.AuthOptional)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := dispatcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildSinks assembles the configured delivery sinks. Each sink is optional;
// an unset URL simply leaves it out.
func buildSinks(ctx context.Context, cfg config.Server, log *slog.Logger) ([]events.Sink, func(), error) {
	var (
		sinks   []events.Sink
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.SplunkHECURL != "" && cfg.SplunkHECToken != "" {
		sinks = append(sinks, splunksink.New(cfg.SplunkHECURL, cfg.SplunkHECToken))
		log.Info("event sink enabled: splunk")
	}
	if cfg.PostgresURL != "" {
		store, err := postgressink.New(ctx, cfg.PostgresURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, store)
		closers = append(closers, store.Close)
		log.Info("event sink enabled: postgres")
	}
	if cfg.KafkaBrokers != "" {
		producer, err := kafkasink.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, producer)
		closers = append(closers, producer.Close)
		log.Info("event sink enabled: kafka")
	}

	return sinks, closeAll, nil
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DianaTao/MindBridge-sub000/internal/adapter/httpserver"
	"github.com/DianaTao/MindBridge-sub000/internal/adapter/memory"
	"github.com/DianaTao/MindBridge-sub000/internal/adapter/postgres"
	"github.com/DianaTao/MindBridge-sub000/internal/adapter/redis"
	"github.com/DianaTao/MindBridge-sub000/internal/app"
	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/enhancer"
	"github.com/DianaTao/MindBridge-sub000/internal/fusion"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/config"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/logging"
	"github.com/DianaTao/MindBridge-sub000/internal/publisher"
)

const resultRetention = 30 * 24 * time.Hour

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

// startResultPruner deletes results past retention once an hour. Returns a
// stop function.
func startResultPruner(repo *postgres.ResultRepository) func() {
	ticker := time.NewTicker(time.Hour)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				pruned, err := repo.PruneOlderThan(ctx, resultRetention)
				cancel()
				if err != nil {
					slog.Error("Result pruning failed", "error", err)
				} else if pruned > 0 {
					slog.Info("Pruned old fusion results", "count", pruned)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

func runGracefulShutdown(srv *httpserver.Server, appSvc *app.App, cleanups ...func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		drainCtx, drainCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer drainCancel()
		if err := appSvc.Shutdown(drainCtx); err != nil {
			slog.Error("Background fusion runs did not drain", "error", err)
		}

		for _, cleanup := range cleanups {
			cleanup()
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	redisClient := setupRedis(cfg)
	cleanups := []func(){func() { _ = redisClient.Close() }}

	observations := redis.NewObservationStore(redisClient, cfg.ObservationTTL)
	alerts := redis.NewAlertPublisher(redisClient)

	healthChecks := []httpserver.HealthCheck{
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	// Without a database the service degrades: results land in a bounded
	// in-memory journal instead of failing ingestion.
	var (
		results   domain.ResultStore
		resultPub domain.ResultPublisher
	)
	if cfg.DatabaseURL != "" {
		pool := setupDB(cfg)
		cleanups = append(cleanups, pool.Close)

		repo := postgres.NewResultRepository(pool)
		results = repo
		resultPub = publisher.New(repo, alerts)

		stopPruner := startResultPruner(repo)
		cleanups = append(cleanups, stopPruner)

		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name: "postgres", Check: pool.Ping,
		})
	} else {
		slog.Warn("DATABASE_URL not set, running with in-memory result journal")
		journal := memory.NewResultStore()
		results = journal
		resultPub = publisher.NewDegraded(journal, alerts)
	}

	params := fusion.Params{
		BaseWeights: domain.FusionWeights{
			domain.ModalityAudio: cfg.BaseWeightAudio,
			domain.ModalityVideo: cfg.BaseWeightVideo,
			domain.ModalityText:  cfg.BaseWeightText,
		},
		AggregationWindow: cfg.AggregationWindow,
		HistoryLimit:      cfg.HistoryLimit,
		TrendEpsilon:      cfg.TrendEpsilon,
		RiskThresholds: fusion.RiskThresholds{
			Medium:   cfg.RiskThresholdMedium,
			High:     cfg.RiskThresholdHigh,
			Critical: cfg.RiskThresholdCritical,
		},
	}

	var opts []fusion.Option
	opts = append(opts, fusion.WithRunBudget(cfg.RunBudget))
	if cfg.EnhancerEnabled {
		opts = append(opts, fusion.WithEnhancer(enhancer.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), cfg.EnhancerTimeout))
		slog.Info("LLM enhancement enabled", "model", cfg.OpenAIModel)
	}
	if cfg.TriggerDebounce > 0 {
		opts = append(opts, fusion.WithDebouncer(redis.NewDebouncer(redisClient, cfg.TriggerDebounce)))
		slog.Info("Trigger debouncing enabled", "interval", cfg.TriggerDebounce)
	}

	fusionSvc := fusion.NewService(observations, results, resultPub, clock, params, opts...)
	appSvc := app.New(observations, results, fusionSvc, clock, cfg.FuseOnIngest)

	srv := httpserver.NewServer(cfg, appSvc, healthChecks)

	done := runGracefulShutdown(srv, appSvc, cleanups...)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/ai"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/extractor"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/postgres"
	redisadapter "github.com/civita-labs/flipwatch-core/internal/adapters/driven/redis"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/sources"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/sources/espoo"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/sources/helsinki"
	"github.com/civita-labs/flipwatch-core/internal/adapters/driven/sources/vantaa"
	"github.com/civita-labs/flipwatch-core/internal/config"
	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
	"github.com/civita-labs/flipwatch-core/internal/core/services"
)

var version = "dev"

func main() {
	// Run mode from environment (RUN_MODE) or command line arg:
	//   once - run every municipality once and exit (default)
	//   cron - keep running on the configured schedule
	mode := getEnv("RUN_MODE", "once")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	// Optional municipality filter, e.g. "flipwatch-core once espoo".
	var only domain.Municipality
	if len(os.Args) > 2 {
		only = domain.Municipality(strings.ToLower(os.Args[2]))
	}

	cfg, err := config.Load(getEnv("FLIPWATCH_CONFIG", ""))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("flipwatch-core starting", "version", version, "mode", mode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, stopping")
		cancel()
	}()

	// ===== PostgreSQL =====
	db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	logger.Info("postgres connected, schema initialized")

	// ===== Redis run lock (optional) =====
	var runLock *redisadapter.Lock
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		runLock = redisadapter.NewLock(redisClient)
		logger.Info("redis connected, run lock enabled")
	} else {
		logger.Info("no redis configured, running without run lock")
	}

	// ===== Source adapters =====
	httpClient := &http.Client{Timeout: 30 * time.Second}
	registry := sources.NewRegistry()
	registry.Register(espoo.New(cfg.Sources.EspooBaseURL, httpClient))
	registry.Register(helsinki.New(cfg.Sources.HelsinkiBaseURL, httpClient))
	registry.Register(vantaa.New(cfg.Sources.VantaaFeedURL, httpClient))

	// ===== Pipeline =====
	orchestrator := services.NewSyncOrchestrator(services.SyncOrchestratorConfig{
		Registry:      registry,
		DecisionStore: postgres.NewDecisionStore(db),
		ActorStore:    postgres.NewActorStore(db),
		FlipStore:     postgres.NewFlipStore(db),
		Extractor:     extractor.New(extractor.Config{Client: httpClient}),
		Enricher:      ai.NewOpenAIEnricher(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Detector:      services.NewDetector(cfg.Sync.FlipThreshold),
		RunLock:       nilIfUnset(runLock),
		ListLimit:     cfg.Sync.ListLimit,
		ItemDelay:     cfg.Sync.ItemDelay,
		LockTTL:       cfg.Sync.LockTTL,
		Logger:        logger,
	})

	switch mode {
	case "once":
		runOnce(ctx, logger, orchestrator, only)

	case "cron":
		runCron(ctx, logger, orchestrator, only, cfg.Sync.CronSchedule)

	default:
		log.Fatalf("Unknown mode: %s (use: once or cron)", mode)
	}
}

// runOnce performs a single batch run and exits non-zero when any
// municipality's run failed.
func runOnce(ctx context.Context, logger *slog.Logger, orchestrator *services.SyncOrchestrator, only domain.Municipality) {
	failed := false

	if only != "" {
		summary, err := orchestrator.RunSync(ctx, only)
		logSummary(logger, summary)
		failed = err != nil
	} else {
		summaries, err := orchestrator.RunAll(ctx)
		for _, summary := range summaries {
			logSummary(logger, summary)
			if !summary.Success {
				failed = true
			}
		}
		if err != nil {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// runCron blocks and triggers batch runs on the configured schedule until
// the context is cancelled.
func runCron(ctx context.Context, logger *slog.Logger, orchestrator *services.SyncOrchestrator, only domain.Municipality, schedule string) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if only != "" {
			summary, _ := orchestrator.RunSync(ctx, only)
			logSummary(logger, summary)
			return
		}
		summaries, _ := orchestrator.RunAll(ctx)
		for _, summary := range summaries {
			logSummary(logger, summary)
		}
	})
	if err != nil {
		log.Fatalf("Invalid cron schedule %q: %v", schedule, err)
	}

	logger.Info("cron mode started", "schedule", schedule)
	c.Start()

	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("cron mode stopped")
}

func logSummary(logger *slog.Logger, summary *domain.RunSummary) {
	if summary == nil {
		return
	}
	logger.Info("run summary",
		"municipality", summary.Municipality,
		"success", summary.Success,
		"items_listed", summary.ItemsListed,
		"items_skipped", summary.ItemsSkipped,
		"items_processed", summary.ItemsProcessed,
		"flips_detected", summary.FlipsDetected,
		"errors", len(summary.Errors),
		"duration_seconds", summary.Duration,
	)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// nilIfUnset keeps a nil *Lock from becoming a non-nil interface value.
func nilIfUnset(lock *redisadapter.Lock) driven.RunLock {
	if lock == nil {
		return nil
	}
	return lock
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"context"
	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fridgechef/gusteau/internal/config"
	"github.com/fridgechef/gusteau/internal/db"
	"github.com/fridgechef/gusteau/internal/logger"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/fridgechef/gusteau/internal/sentry"
	"github.com/fridgechef/gusteau/internal/services/history"
	"github.com/fridgechef/gusteau/internal/telemetry"
	"github.com/fridgechef/gusteau/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		headers := telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders)
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName+"-worker", cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, headers)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName+"-worker", cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger) // Set as default so slog.Info() uses our handler

	// The worker only runs history tasks, so both the queue and a
	// history backend must be configured.
	if !cfg.WorkerEnabled() {
		log.Fatalf("Worker requires REDIS_URL")
	}
	if !cfg.HistoryEnabled() {
		log.Fatalf("Worker requires a history backend: set SUPABASE_URL and SUPABASE_KEY, or DATABASE_URL with history backend postgres")
	}

	// Database connection, only for the direct Postgres history backend
	var pool *pgxpool.Pool
	if cfg.History.Backend == "postgres" && cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
	}

	historyGateway := history.New(cfg, pool)
	if historyGateway == nil {
		log.Fatalf("Failed to build history gateway")
	}

	// History processor
	processor := worker.NewHistoryProcessor(historyGateway, cfg.History.RetentionDays)

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	// Asynq server
	srv, err := worker.NewServer(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Register handlers
	mux := asynq.NewServeMux()
	mux.Use(worker.SentryMiddleware)
	mux.Use(worker.OTelMiddleware)
	mux.Use(worker.MetricsMiddleware(workerMetrics))
	mux.HandleFunc(worker.TypeHistorySave, processor.HandleHistorySave)
	mux.HandleFunc(worker.TypeHistoryCleanup, processor.HandleHistoryCleanup)

	// Daily retention sweep
	scheduler, err := worker.NewScheduler(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}
	if _, err := scheduler.Register("@daily", worker.NewHistoryCleanupTask()); err != nil {
		log.Fatalf("Failed to schedule history cleanup: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
	}()

	slog.Info("Starting worker", "backend", cfg.History.Backend, "retention_days", cfg.History.RetentionDays)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}

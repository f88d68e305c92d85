package main

import (
	"context"
	_ "github.com/joho/godotenv/autoload"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/fridgechef/gusteau/internal/api"
	"github.com/fridgechef/gusteau/internal/cache"
	"github.com/fridgechef/gusteau/internal/config"
	"github.com/fridgechef/gusteau/internal/db"
	"github.com/fridgechef/gusteau/internal/logger"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/fridgechef/gusteau/internal/middleware"
	"github.com/fridgechef/gusteau/internal/pipeline"
	"github.com/fridgechef/gusteau/internal/sentry"
	"github.com/fridgechef/gusteau/internal/services/history"
	"github.com/fridgechef/gusteau/internal/services/llm"
	"github.com/fridgechef/gusteau/internal/services/photos"
	"github.com/fridgechef/gusteau/internal/telemetry"
	"github.com/fridgechef/gusteau/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"
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
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, headers)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
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

	// Vision and recipe model provider
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to build model provider: %v", err)
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

	// History gateway; nil when persistence is not configured
	historyGateway := history.New(cfg, pool)

	// History writes go through the queue when Redis is configured,
	// straight to the gateway otherwise.
	var saver pipeline.HistorySaver
	if historyGateway != nil {
		if cfg.WorkerEnabled() {
			asynqClient, err := worker.NewClient(cfg.RedisURL)
			if err != nil {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			defer asynqClient.Close()
			saver = worker.NewHistoryEnqueuer(asynqClient)
		} else {
			saver = pipeline.GatewaySaver{Gateway: historyGateway}
		}
	}

	// Stock photo client with optional Redis cache
	var photoOpts []photos.Option
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			slog.Warn("Failed to connect photo cache", "error", err)
		} else {
			photoOpts = append(photoOpts, photos.WithCache(cache.NewPhotoCache(redisClient)))
		}
	}
	photosClient := photos.NewClient(cfg.UnsplashAccessKey, photoOpts...)

	// API handlers
	apiServer := api.NewServer(cfg, pipeline.New(provider, saver), photosClient, historyGateway)

	// Router
	r := chi.NewRouter()

	// Middleware
	r.Use(otelchi.Middleware("gusteau-server",
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig("gusteau-server", otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes; JWT verification is enforced only when a secret is set
	r.Group(func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(middleware.AuthMiddleware(cfg))
		}
		r.Post("/api/v1/ingredients/detect", apiServer.HandleDetectIngredients)
		r.Post("/api/v1/recipes/suggest", apiServer.HandleSuggestRecipes)
		r.Get("/api/v1/recipes/titles", apiServer.HandleRecipeTitles)
		r.Post("/api/v1/recipes/export", apiServer.HandleExportRecipes)
		r.Get("/api/v1/photos", apiServer.HandlePhotoLookup)
		r.Get("/api/v1/history", apiServer.HandleHistory)
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Starting server", "port", port, "provider", cfg.LLM.Provider, "history", cfg.HistoryEnabled(), "photos", cfg.PhotosEnabled())

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

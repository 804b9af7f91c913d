package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/analytics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/api"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/config"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/database"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/dupcheck"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/embed"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/logging"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/metrics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/server"
)

const analyticsRefreshInterval = 5 * time.Minute

func main() {
	// Local dev convenience; production injects real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting partypanther")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to database")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Non-fatal so a schema hiccup doesn't keep the service down.
	if err := database.RunMigrations(db, "./migrations", logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	eventRepo := database.NewPostgresEventRepository(db)
	promoRepo := database.NewPostgresPromotionRepository(db)
	reviewRepo := database.NewPostgresReviewRepository(db)
	userRepo := database.NewPostgresUserRepository(db)
	analyticsRepo := database.NewPostgresAnalyticsRepository(db)

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, duplicate checks will fail open")
	}
	classifier := dupcheck.NewOpenAIClassifier(cfg.OpenAI, logger)
	candidates := database.NewCandidateFetcher(eventRepo, promoRepo)

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	dupcheckService := dupcheck.NewService(candidates, classifier, collector, logger)

	analyticsService := analytics.NewService(analyticsRepo, analyticsRefreshInterval, logger)
	go analyticsService.Run(ctx)

	embedFetcher := embed.NewFetcher(logger)

	mux := http.NewServeMux()
	api.SetupRoutes(mux, api.Deps{
		DB:        db,
		Events:    eventRepo,
		Promos:    promoRepo,
		Reviews:   reviewRepo,
		Users:     userRepo,
		Dupcheck:  dupcheckService,
		Analytics: analyticsService,
		Embed:     embedFetcher,
		Metrics:   collector,
		AuthCfg:   cfg.Auth,
		Logger:    logger,
	})

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

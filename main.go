package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/chat"
	"github.com/agrisense-io/agrisense-engine/pkg/config"
	"github.com/agrisense-io/agrisense-engine/pkg/croprec"
	"github.com/agrisense-io/agrisense-engine/pkg/database"
	"github.com/agrisense-io/agrisense-engine/pkg/detection"
	"github.com/agrisense-io/agrisense-engine/pkg/detector"
	"github.com/agrisense-io/agrisense-engine/pkg/handlers"
	"github.com/agrisense-io/agrisense-engine/pkg/llm"
	"github.com/agrisense-io/agrisense-engine/pkg/middleware"
	"github.com/agrisense-io/agrisense-engine/pkg/reference"
	"github.com/agrisense-io/agrisense-engine/pkg/repositories"
	"github.com/agrisense-io/agrisense-engine/pkg/retry"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
	"github.com/agrisense-io/agrisense-engine/pkg/translate"
	"github.com/agrisense-io/agrisense-engine/pkg/weather"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Host),
		zap.Bool("redis", cfg.Redis.Host != ""))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres may still be starting in a fresh stack; retry before giving up.
	db, err := retry.DoWithResult(ctx, retry.StartupConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &cfg.Database)
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewChatHistoryClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Model artifacts and reference tables ship with the deployment; a
	// missing file is a packaging error, not a runtime condition.
	artifact, err := croprec.LoadArtifact(cfg.Crop.ArtifactPath)
	if err != nil {
		logger.Fatal("Failed to load crop model artifact", zap.Error(err))
	}
	tables, err := reference.Load(cfg.Detector.DiseaseInfoPath, cfg.Detector.SupplementInfoPath)
	if err != nil {
		logger.Fatal("Failed to load reference tables", zap.Error(err))
	}

	weatherCache, err := weather.NewFileStore(cfg.Weather.CachePath)
	if err != nil {
		logger.Fatal("Failed to open weather cache", zap.Error(err))
	}
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout, logger)
	weatherService := weather.NewService(weatherClient, weatherCache, cfg.Weather.LookbackDays, logger)

	scorer := croprec.NewScoreClient(cfg.Crop.ScorerURL, cfg.Crop.Timeout, logger)

	detectorClient := detector.NewClient(cfg.Detector.URL, cfg.Detector.Timeout, logger)
	detectorAvailable := true
	if err := detectorClient.Healthy(ctx); err != nil {
		logger.Warn("Detection model unreachable, disease detection disabled", zap.Error(err))
		detectorAvailable = false
	}
	pipeline := detection.NewPipeline(detectorClient, logger)

	translator := translate.NewClient(cfg.Chat.TranslateURL, cfg.Chat.Timeout, logger)
	generator, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.Chat.LLMBaseURL,
		Model:    cfg.Chat.LLMModel,
		APIKey:   cfg.Chat.LLMAPIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build LLM client", zap.Error(err))
	}
	logger.Info("LLM client ready", zap.String("model", generator.GetModel()))

	var history chat.HistoryStore
	if redisClient != nil {
		history = chat.NewRedisStore(redisClient, chat.MaxTurns)
		logger.Info("Chat history backed by Redis")
	} else {
		history = chat.NewMemoryStore(chat.MaxTurns)
		logger.Info("Chat history kept in process memory")
	}

	userRepo := repositories.NewUserRepository(db)
	cropRepo := repositories.NewCropRepository(db)
	detRepo := repositories.NewDetectionRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	userService := services.NewUserService(userRepo, logger)
	recService := services.NewRecommendationService(weatherService, artifact, scorer, cropRepo, logger)
	detService := services.NewDetectionService(pipeline, tables, detRepo, cfg.Uploads.Dir, cfg.Uploads.MaxBytes, detectorAvailable, logger)
	chatService := services.NewChatService(generator, translator, history, chatRepo, logger)
	dashService := services.NewDashboardService(userRepo, cropRepo, detRepo, chatRepo, logger)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	sessions := auth.NewSessionStore(cfg.SessionSecret)
	authMiddleware := auth.NewMiddleware(issuer, sessions, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, issuer, sessions, logger).RegisterRoutes(mux)
	handlers.NewCropHandler(recService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDetectionHandler(detService, cfg.Uploads.MaxBytes, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewChatHandler(chatService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDashboardHandler(dashService, userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUploadsHandler(cfg.Uploads.Dir, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting agrisense-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

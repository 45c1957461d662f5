package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/router"
	"github.com/joinciviq/civiq-backend/internal/services/gemini"
	"github.com/joinciviq/civiq-backend/internal/services/ingest"
	"github.com/joinciviq/civiq-backend/internal/services/summary"
	"github.com/joinciviq/civiq-backend/pkg/config"
	"github.com/joinciviq/civiq-backend/pkg/firebase"
	"github.com/joinciviq/civiq-backend/pkg/logger"
	"github.com/joinciviq/civiq-backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Firebase is optional: without credentials the app runs with push
	// delivery disabled.
	var messagingClient *messaging.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			zapLogger.Warn("Failed to initialize Firebase, push notifications disabled", zap.Error(err))
		} else {
			messagingClient = firebaseApp.MessagingClient
		}
	}

	// Gemini is optional: without a key, moderation degrades to
	// pass-through cleaning and AI summaries fall back to excerpts.
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			zapLogger.Warn("Failed to initialize Gemini client, AI features disabled", zap.Error(err))
			geminiClient = nil
		} else {
			defer geminiClient.Close()
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, cfg, zapLogger)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg, messagingClient, geminiClient, zapLogger)

	// Validator
	e.Validator = validators.NewValidator()

	// Background bill ingestion when at least one source is configured
	if cfg.ProPublicaAPIKey != "" || cfg.OpenStatesAPIKey != "" {
		billRepo := repositories.NewPostgresBillRepository(db.Postgres)
		archiveRepo := repositories.NewMongoBillArchiveRepository(db.Mongo.Database(cfg.MongoDatabase))

		var propublica *ingest.ProPublicaClient
		if cfg.ProPublicaAPIKey != "" {
			propublica = ingest.NewProPublicaClient(cfg.ProPublicaAPIKey, nil)
		}
		var openstates *ingest.OpenStatesClient
		if cfg.OpenStatesAPIKey != "" {
			openstates = ingest.NewOpenStatesClient(cfg.OpenStatesAPIKey, nil)
		}

		var summaries *summary.Service
		if geminiClient != nil {
			summaries = summary.NewService(geminiClient, billRepo, zapLogger)
		}

		ingestService := ingest.NewService(
			billRepo, archiveRepo, propublica, openstates, cfg.IngestStates, summaries, zapLogger)
		go ingestService.Run(ctx, cfg.IngestInterval)
		zapLogger.Info("Bill ingestion started", zap.Duration("interval", cfg.IngestInterval))
	} else {
		zapLogger.Info("No bill source API keys configured, ingestion disabled")
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

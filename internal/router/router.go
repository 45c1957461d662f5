package router

import (
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/handlers"
	"github.com/joinciviq/civiq-backend/internal/middleware"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/district"
	"github.com/joinciviq/civiq-backend/internal/services/gemini"
	"github.com/joinciviq/civiq-backend/internal/services/moderation"
	"github.com/joinciviq/civiq-backend/internal/services/notify"
	"github.com/joinciviq/civiq-backend/internal/services/voting"
	"github.com/joinciviq/civiq-backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(
	e *echo.Echo,
	db *config.DB,
	cfg *config.Config,
	messagingClient *messaging.Client,
	geminiClient *gemini.Client,
	logger *zap.Logger,
) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Bill{},
		&models.Amendment{},
		&models.Vote{},
		&models.AmendmentVote{},
		&models.SavedBill{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	billRepo := repositories.NewPostgresBillRepository(db.Postgres)
	amendmentRepo := repositories.NewPostgresAmendmentRepository(db.Postgres)
	voteRepo := repositories.NewPostgresVoteRepository(db.Postgres)
	savedBillRepo := repositories.NewPostgresSavedBillRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	// --- Initialize Services ---
	votingEngine := voting.NewEngine(db.Postgres, logger)
	districts := district.StaticLookup{}
	notifyService := notify.NewService(notificationRepo, userRepo, messagingClient, logger)

	var generator moderation.Generator
	if geminiClient != nil {
		generator = geminiClient
	}
	moderationService := moderation.NewService(generator, cfg.ModerationFallbackMaxLen, logger)

	// --- Public routes (no authentication required) ---
	public := e.Group("/api")
	public.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied.")

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, districts, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"), api)
	log.Println("Auth routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, voteRepo, savedBillRepo, amendmentRepo, districts)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Bill routes
	billHandler := handlers.NewBillHandler(billRepo, amendmentRepo, userRepo, votingEngine)
	billHandler.RegisterBillRoutes(public, api)
	log.Println("Bill routes configured.")

	// Amendment routes
	amendmentHandler := handlers.NewAmendmentHandler(
		amendmentRepo, billRepo, userRepo, moderationService, notifyService, votingEngine, logger)
	amendmentHandler.RegisterAmendmentRoutes(public, api)
	log.Println("Amendment routes configured.")

	// Saved bill routes
	savedBillHandler := handlers.NewSavedBillHandler(savedBillRepo, billRepo)
	savedBillHandler.RegisterSavedBillRoutes(api)
	log.Println("Saved bill routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}

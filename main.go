package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/masjidwalk/backend/internal/config"
	"github.com/masjidwalk/backend/internal/handler"
	"github.com/masjidwalk/backend/internal/middleware"
	"github.com/masjidwalk/backend/internal/repository"
	"github.com/masjidwalk/backend/internal/service"
	"github.com/masjidwalk/backend/internal/stepcount"
	"github.com/masjidwalk/backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	// Initialize the blob store backend
	var store storage.Store
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		store, err = storage.NewPostgresStore(context.Background(), cfg.Storage.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
	default:
		store, err = storage.NewFileStore(cfg.Storage.DataDir, logger)
		if err != nil {
			logger.Fatal("Failed to open data directory", zap.Error(err))
		}
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to reach storage", zap.Error(err))
	}
	logger.Info("Storage ready")

	// Initialize repositories
	walkRepo := repository.NewWalkRepository(store, logger)
	badgeRepo := repository.NewBadgeRepository(store, logger)

	// Initialize services
	historyService := service.NewHistoryService(walkRepo, logger)
	badgeService := service.NewBadgeService(badgeRepo, logger)

	// Motion sources in priority order: the on-device accelerometer first,
	// then samples pushed over HTTP, then the GPS fallback inside the counter
	feed := stepcount.NewDeviceMotionFeed(true)
	providers := []stepcount.Provider{
		stepcount.NewSimulatedAccelerometer(cfg.Session.SimulateSensor, cfg.Session.SampleRateHz),
		feed,
	}
	counter := stepcount.New(providers, nil, logger)
	sessionService := service.NewSessionService(counter, feed, logger)

	// Initialize handlers
	walkHandler := handler.NewWalkHandler(historyService, badgeService, logger)
	badgeHandler := handler.NewBadgeHandler(badgeService, historyService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	healthHandler := handler.NewHealthHandler(store, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Register routes
	r.GET("/health", healthHandler.GetHealth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/walks", walkHandler.PostWalk)
		v1.GET("/walks", walkHandler.GetWalks)
		v1.DELETE("/walks/:id", walkHandler.DeleteWalk)
		v1.GET("/stats", walkHandler.GetStats)
		v1.GET("/badges", badgeHandler.GetBadges)

		v1.POST("/session/start", sessionHandler.StartSession)
		v1.POST("/session/pause", sessionHandler.PauseSession)
		v1.POST("/session/resume", sessionHandler.ResumeSession)
		v1.POST("/session/stop", sessionHandler.StopSession)
		v1.POST("/session/samples", sessionHandler.PushSamples)
		v1.GET("/session", sessionHandler.GetSession)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

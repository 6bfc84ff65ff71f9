package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jrcts-claim-tracker/config"
	deliveryHttp "jrcts-claim-tracker/internal/delivery/http"
	"jrcts-claim-tracker/internal/delivery/http/handler"
	"jrcts-claim-tracker/internal/delivery/http/middleware"
	"jrcts-claim-tracker/internal/infrastructure/cache"
	"jrcts-claim-tracker/internal/infrastructure/claimapi"
	"jrcts-claim-tracker/internal/infrastructure/database"
	"jrcts-claim-tracker/internal/repository"
	"jrcts-claim-tracker/internal/service"
	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New loads configuration from envFile and the environment and wires
// every layer of the application
func New(envFile string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logrus.Infof("Database ready (driver=%s)", cfg.DB.Driver)

	// Initialize Redis (optional)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize external client
	claimClient := claimapi.NewClient(cfg.ExternalAPI, log)

	// Initialize repositories
	claimRepo := repository.NewClaimRepository()
	historyRepo := repository.NewClaimHistoryRepository()

	// Initialize services
	resiService := service.NewResiService(redisClient, claimRepo, log, cfg.Resi.Prefix)
	historyService := service.NewHistoryService(log, historyRepo)

	// Initialize usecases
	registrationUsecase := usecase.NewRegistrationUsecase(db, log, claimRepo, resiService, historyService)
	trackingUsecase := usecase.NewTrackingUsecase(db, log, claimRepo, historyRepo, claimClient)
	claimStepUsecase := usecase.NewClaimStepUsecase(db, log, claimRepo, historyService, claimClient)
	adminUsecase := usecase.NewAdminUsecase(db, log, claimRepo, historyRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, claimRepo, historyRepo)

	// Initialize handlers
	registrationHandler := handler.NewRegistrationHandler(registrationUsecase, customValidator)
	trackingHandler := handler.NewTrackingHandler(trackingUsecase)
	adminHandler := handler.NewAdminHandler(adminUsecase, claimStepUsecase, customValidator)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize middleware
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		registrationHandler,
		trackingHandler,
		adminHandler,
		dashboardHandler,
		healthHandler,
		loggingMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

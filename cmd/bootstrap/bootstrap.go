package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulseride/config"
	deliveryHttp "pulseride/internal/delivery/http"
	"pulseride/internal/delivery/http/handler"
	"pulseride/internal/delivery/http/middleware"
	"pulseride/internal/infrastructure/broker"
	"pulseride/internal/infrastructure/cache"
	"pulseride/internal/infrastructure/database"
	"pulseride/internal/repository"
	"pulseride/internal/service"
	"pulseride/internal/usecase"
	"pulseride/pkg/jwt"
	"pulseride/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Producer    *broker.Producer
	SyncService *service.AvailabilitySyncService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Database migrations applied")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	if len(cfg.Kafka.Brokers) > 0 {
		app.Producer = broker.NewProducer(cfg.Kafka.Brokers)
		logrus.Infof("Kafka producer connected to %v", cfg.Kafka.Brokers)
	} else {
		logrus.Info("Kafka brokers not configured, event publishing disabled")
	}

	log := logrus.StandardLogger()

	// Hydrate the availability mirror before taking traffic.
	syncService := service.NewAvailabilitySyncService(db, redisClient, log)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := syncService.SyncOnStartup(ctx); err != nil {
		return nil, fmt.Errorf("failed to sync availability mirror: %w", err)
	}
	app.SyncService = syncService
	logrus.Info("Availability mirror synced")

	app.Server = initializeServer(cfg, db, redisClient, syncService, app.Producer, log)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	syncService *service.AvailabilitySyncService,
	producer *broker.Producer,
	log *logrus.Logger,
) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)
	ambulanceRepo := repository.NewAmbulanceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	idempotencyStore := service.NewIdempotencyStore(redisClient, log)

	// The lifecycle and booking usecases keep the mirror in step with every
	// status mutation; a nil producer simply drops events.
	var eventProducer usecase.EventProducer
	if producer != nil {
		eventProducer = producer
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, jwtService, redisClient)
	userUsecase := usecase.NewUserUsecase(log, userRepo)
	availabilityUsecase := usecase.NewAvailabilityUsecase(log, hospitalRepo, ambulanceRepo, syncService)
	hospitalUsecase := usecase.NewHospitalUsecase(log, hospitalRepo, syncService, auditService)
	ambulanceUsecase := usecase.NewAmbulanceUsecase(log, ambulanceRepo, hospitalRepo, syncService, auditService)
	bookingUsecase := usecase.NewBookingUsecase(log, bookingRepo, userRepo, hospitalRepo, ambulanceRepo, syncService, idempotencyStore, auditService, eventProducer, cfg.Kafka.BookingsTopic)
	lifecycleUsecase := usecase.NewLifecycleUsecase(log, bookingRepo, ambulanceRepo, syncService, auditService, eventProducer, cfg.Kafka.BookingsTopic)
	auditUsecase := usecase.NewAuditUsecase(log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	hospitalHandler := handler.NewHospitalHandler(hospitalUsecase, availabilityUsecase, customValidator)
	ambulanceHandler := handler.NewAmbulanceHandler(ambulanceUsecase, availabilityUsecase, lifecycleUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, lifecycleUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, userHandler, hospitalHandler, ambulanceHandler, bookingHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	if app.SyncService != nil {
		app.SyncService.Stop()
	}

	if app.Producer != nil {
		if err := app.Producer.Close(); err != nil {
			logrus.Errorf("Failed to close Kafka producer: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

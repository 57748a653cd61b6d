package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/uniride/carpool-service/internal/api/handlers"
	"github.com/uniride/carpool-service/internal/api/routes"
	"github.com/uniride/carpool-service/internal/config"
	"github.com/uniride/carpool-service/internal/persistence"
	"github.com/uniride/carpool-service/internal/store"
	"github.com/uniride/carpool-service/pkg/cache"
	"github.com/uniride/carpool-service/pkg/database"
	"github.com/uniride/carpool-service/pkg/logger"
	"github.com/uniride/carpool-service/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting UniRide carpool service",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("persistence", cfg.Persistence.Backend),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp, _ = monitoring.New(monitoring.Config{})
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Redis client: required by the redis persistence backend, optional
	// for the idempotency middleware.
	var redisClient *redis.Client
	if cfg.Redis.Enabled || cfg.Persistence.Backend == config.BackendRedis {
		redisClient, err = cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		defer cache.Close(redisClient)
		appLogger.Info("Connected to Redis successfully")
	}

	// Persistence gateway
	gateway, err := newGateway(cfg, redisClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize persistence gateway", logger.Err(err))
	}

	// Load the snapshot into the store
	st := store.New(gateway, appLogger)
	if err := st.Load(context.Background()); err != nil {
		appLogger.Fatal("Failed to load persisted state", logger.Err(err))
	}

	// Initialize handlers with dependencies
	h := handlers.NewHandlers(st, appLogger, nrApp)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, nrApplication, redisClient)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}

// newGateway builds the snapshot gateway selected by configuration.
func newGateway(cfg *config.Config, redisClient *redis.Client) (persistence.Gateway, error) {
	switch cfg.Persistence.Backend {
	case config.BackendFile:
		return persistence.NewFileGateway(cfg.Persistence.FilePath), nil

	case config.BackendPostgres:
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
			MaxIdle:  cfg.Database.MaxIdle,
		})
		if err != nil {
			return nil, err
		}
		return persistence.NewPostgresGateway(context.Background(), db)

	case config.BackendRedis:
		return persistence.NewRedisGateway(redisClient, cfg.Persistence.RedisKey), nil

	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}
}

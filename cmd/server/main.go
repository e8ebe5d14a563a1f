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

	"goride/internal/config"
	"goride/internal/handlers"
	"goride/internal/middleware"
	"goride/internal/repositories/mongodb"
	"goride/internal/services"
	"goride/pkg/cache"
	"goride/pkg/database"
	"goride/pkg/logger"
	"goride/pkg/maps"
	"goride/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Connect MongoDB and ensure indexes
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongoDB.Close()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.EnsureIndexes(indexCtx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure MongoDB indexes")
	}
	cancelIndexes()

	// Connect Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Optional directions provider
	var directions maps.DirectionsProvider
	if cfg.Maps.Enabled() {
		provider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			appLogger.WithError(err).Warn("Failed to initialize directions provider, continuing without one")
		} else {
			directions = provider
		}
	}

	// Services
	cacheService := services.NewCacheService(redisCache, appLogger)

	// Repositories
	rideRepo := mongodb.NewRideRepository(mongoDB.Database, cacheService)
	driverRepo := mongodb.NewDriverRepository(mongoDB.Database)
	riderRepo := mongodb.NewRiderRepository(mongoDB.Database)
	instanceRepo := mongodb.NewRideInstanceRepository(mongoDB.Database)

	statsService := services.NewStatsService(driverRepo, riderRepo, appLogger)
	searchService := services.NewSearchService(rideRepo, cacheService, appLogger)
	rideService := services.NewRideService(rideRepo, instanceRepo, riderRepo, statsService, directions, appLogger)
	bookingService := services.NewBookingService(rideRepo, riderRepo, instanceRepo, searchService, statsService, appLogger)

	// Handlers
	rideHandler := handlers.NewRideHandler(rideService, searchService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	driverHandler := handlers.NewDriverHandler(statsService, rideService)
	riderHandler := handlers.NewRiderHandler(rideService, bookingService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	v1 := router.Group("/api/v1")
	{
		routes.SetupRideRoutes(v1, cfg.Security.JWTSecret, rideHandler, bookingHandler)
		routes.SetupDriverRoutes(v1, cfg.Security.JWTSecret, driverHandler)
		routes.SetupRiderRoutes(v1, cfg.Security.JWTSecret, riderHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		}

		if err := mongoDB.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["mongodb"] = err.Error()
		}
		if err := cacheService.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["redis"] = err.Error()
		}

		c.JSON(status, health)
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Security.RequestTimeout,
		WriteTimeout: cfg.Security.RequestTimeout,
	}

	go func() {
		appLogger.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Forced server shutdown")
	}
}

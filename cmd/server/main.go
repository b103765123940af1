package main

import (
	"context"
	"log"
	"os"

	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/config"
	"github.com/gatherline/rsvp-service/internal/handlers"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/repositories/postgres"
	"github.com/gatherline/rsvp-service/internal/services"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gatherline/rsvp-service/internal/validator"
	"github.com/gatherline/rsvp-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis is optional; caching and login rate limiting degrade gracefully.
	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogLogger)
	if err != nil {
		log.Fatalf("failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	repo := postgres.New(db)

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:      repo,
		Cache:     cacheService,
		Publisher: publisher,
		JWTSecret: cfg.JWTSecret,
		BaseURL:   cfg.BaseURL,
		Logger:    slogLogger,
		Validator: validator.New(),
	})

	ensureBootstrapAdmin(repo, serviceManager, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// ensureBootstrapAdmin creates the initial admin account when ADMIN_USERNAME
// and ADMIN_PASSWORD are set and no account with that name exists yet.
func ensureBootstrapAdmin(repo repositories.Repository, serviceManager services.ServiceManager, logger utils.Logger) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	ctx := context.Background()
	if _, err := repo.Admin().GetByUsername(ctx, username); err == nil {
		return
	}

	if _, err := serviceManager.Auth().CreateAdmin(ctx, username, password); err != nil {
		logger.Warn("Bootstrap admin not created", "username", username, "error", err)
		return
	}
	logger.Info("Bootstrap admin created", "username", username)
}

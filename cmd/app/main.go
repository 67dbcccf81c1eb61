package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"airdrop-backend/internal/common/cache"
	"airdrop-backend/internal/common/config"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/common/middleware"
	activityhttp "airdrop-backend/internal/features/activity/delivery/http"
	activityrepo "airdrop-backend/internal/features/activity/repository/postgres"
	activityservice "airdrop-backend/internal/features/activity/service"
	taskhttp "airdrop-backend/internal/features/task/delivery/http"
	taskrepo "airdrop-backend/internal/features/task/repository/postgres"
	taskservice "airdrop-backend/internal/features/task/service"
	userhttp "airdrop-backend/internal/features/user/delivery/http"
	userrepo "airdrop-backend/internal/features/user/repository/postgres"
	userservice "airdrop-backend/internal/features/user/service"
	"airdrop-backend/internal/platform/postgres"
	redisplatform "airdrop-backend/internal/platform/redis"
	"airdrop-backend/internal/platform/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		os.Exit(1)
	}

	logger.Init("airdrop-backend", cfg.Debug)

	log.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Msg("Starting Airdrop Backend")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	redisClient, err := redisplatform.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)
	telegramClient := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Timeout)

	userRepository := userrepo.NewPostgresRepository(postgresClient.GetDB())
	taskRepository := taskrepo.NewPostgresRepository(postgresClient.GetDB())
	activityRepository := activityrepo.NewPostgresRepository(postgresClient.GetDB())

	userSvc := userservice.NewUserService(userRepository, activityRepository, cacheService,
		cfg.Redis.UserTTL, cfg.Campaign.ReferralBonus)
	taskSvc := taskservice.NewTaskService(taskRepository)
	activitySvc := activityservice.NewActivityService(activityRepository, taskRepository,
		userRepository, telegramClient, cacheService)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(log.Logger))
	router.Use(middleware.HandleErrors(log.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	userHandler := userhttp.NewUserHandler(userSvc)
	taskHandler := taskhttp.NewTaskHandler(taskSvc)
	activityHandler := activityhttp.NewActivityHandler(activitySvc)

	userHandler.RegisterRoutes(router)
	taskHandler.RegisterRoutes(router)
	activityHandler.RegisterRoutes(router)

	admin := router.Group("/admin")
	admin.Use(middleware.TelegramInitData(cfg))
	admin.Use(middleware.RequireAdmin(cfg))
	taskHandler.RegisterAdminRoutes(admin)

	registerProbes(router, postgresClient, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func registerProbes(router *gin.Engine, postgresClient *postgres.Client, redisClient *goredis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "airdrop-backend",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "postgres unavailable",
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "redis unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "airdrop-backend",
		})
	})
}

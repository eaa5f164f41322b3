package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-review-api/internal/auth"
	"github.com/yukikurage/task-review-api/internal/config"
	"github.com/yukikurage/task-review-api/internal/database"
	"github.com/yukikurage/task-review-api/internal/handlers"
	"github.com/yukikurage/task-review-api/internal/logging"
	"github.com/yukikurage/task-review-api/internal/middleware"
	"github.com/yukikurage/task-review-api/internal/repository"
	"github.com/yukikurage/task-review-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token revocation lives in Redis when configured, in memory otherwise
	var revocations auth.RevocationStore
	if addr := cfg.RedisAddr(); addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := auth.NewRedisClient(ctx, addr)
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.String("addr", addr), zap.Error(err))
		}
		defer client.Close()
		revocations = auth.NewRedisRevocationStore(client)
		logger.Info("Using Redis token revocation store", zap.String("addr", addr))
	} else {
		revocations = auth.NewMemoryRevocationStore()
		logger.Warn("REDIS_HOST not set, revoked tokens are kept in memory")
	}

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	taskService := services.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewTaskHistoryRepository(db),
		drafter,
	)

	svc := handlers.Services{
		Auth:        services.NewAuthService(userRepo, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), revocations),
		Users:       services.NewUserService(userRepo),
		Tasks:       taskService,
		Submissions: services.NewSubmissionService(submissionRepo, taskService),
		Comments:    services.NewCommentService(repository.NewCommentRepository(db), submissionRepo),
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	handlers.RegisterRoutes(r, svc)

	// Start server
	addr := ":" + cfg.Port
	logger.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

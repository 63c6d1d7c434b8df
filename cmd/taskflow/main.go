package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/config"
	"github.com/taskflow-dev/taskflow/internal/handlers"
	"github.com/taskflow-dev/taskflow/internal/logger"
	"github.com/taskflow-dev/taskflow/internal/router"
	"github.com/taskflow-dev/taskflow/internal/service"
	"github.com/taskflow-dev/taskflow/internal/store"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	users := store.NewUserStore(conn)
	tasks := store.NewTaskStore(conn)
	goals := store.NewGoalStore(conn)
	categories := store.NewCategoryStore(conn)

	h := router.Handlers{
		Auth:       handlers.NewAuthHandler(service.NewAuthService(users, tokens, cfg.BcryptCost)),
		Tasks:      handlers.NewTaskHandler(service.NewTaskService(tasks, categories)),
		Goals:      handlers.NewGoalHandler(service.NewGoalService(goals)),
		Categories: handlers.NewCategoryHandler(service.NewCategoryService(categories)),
	}

	r := router.New(cfg, zlog, tokens, h)

	zlog.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

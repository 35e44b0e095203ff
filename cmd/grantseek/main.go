package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grantseek/internal/api"
	"grantseek/internal/api/handlers"
	"grantseek/internal/repository"
	"grantseek/internal/service"
	"grantseek/pkg/config"
	"grantseek/pkg/logger"
	"grantseek/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting grantseek search API")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	projectRepo := repository.NewProjectRepository(db, appLogger)
	llmService := service.NewLLMService(&cfg.OpenAI, appLogger)

	projectHandler := handlers.NewProjectHandler(projectRepo, llmService, appLogger)

	app := api.SetupRouter(projectHandler)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

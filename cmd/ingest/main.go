package main

import (
	"context"
	"flag"
	"fmt"
	"os"

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

	dir := flag.String("dir", cfg.Crawler.DownloadDir, "directory tree to scan for PDFs")
	flag.Parse()

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()

	if _, err := os.Stat(*dir); err != nil {
		appLogger.Fatal("Download directory not found", zap.String("dir", *dir))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	projectRepo := repository.NewProjectRepository(db, appLogger)
	llmService := service.NewLLMService(&cfg.OpenAI, appLogger)
	pdfService := service.NewPDFService(appLogger)

	ingest := service.NewIngestService(pdfService, llmService, llmService, projectRepo, appLogger)

	processed, failed, err := ingest.ProcessDirectory(ctx, *dir)
	if err != nil {
		appLogger.Fatal("Ingestion failed", zap.Error(err))
	}

	appLogger.Info("Ingestion complete",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)
}

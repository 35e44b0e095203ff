package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"grantseek/internal/scraper"
	"grantseek/pkg/config"
	"grantseek/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	maxPages := flag.Int("pages", cfg.Crawler.MaxPages, "maximum listing pages to crawl")
	maxItems := flag.Int("items", cfg.Crawler.MaxItemsPerPage, "maximum announcements per page")
	downloadDir := flag.String("dir", cfg.Crawler.DownloadDir, "attachment download directory")
	year := flag.String("year", cfg.Crawler.Year, "announcement year filter")
	month := flag.String("month", cfg.Crawler.Month, "announcement month filter, 00 for all")
	flag.Parse()

	cfg.Crawler.MaxPages = *maxPages
	cfg.Crawler.MaxItemsPerPage = *maxItems
	cfg.Crawler.DownloadDir = *downloadDir
	cfg.Crawler.Year = *year
	cfg.Crawler.Month = *month

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting announcement crawl",
		zap.Int("max_pages", cfg.Crawler.MaxPages),
		zap.Int("max_items_per_page", cfg.Crawler.MaxItemsPerPage),
		zap.String("download_dir", cfg.Crawler.DownloadDir),
	)

	crawler := scraper.NewCrawler(&cfg.Crawler, appLogger)

	stats, _, err := crawler.Crawl(context.Background())
	if err != nil {
		appLogger.Fatal("Crawl failed", zap.Error(err))
	}

	appLogger.Info("Crawl complete",
		zap.Int("pages", stats.Pages),
		zap.Int("announcements", stats.Announcements),
		zap.Int("with_attachments", stats.WithAttachments),
	)
}

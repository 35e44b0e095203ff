package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"grantseek/internal/models"
	"grantseek/pkg/config"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// titlePrefixLen caps the announcement-folder name component.
const titlePrefixLen = 50

// CrawlStats aggregates one crawl pass.
type CrawlStats struct {
	Pages           int
	Announcements   int
	WithAttachments int
}

// Crawler walks the board page by page, downloading every attachment of
// every announcement it discovers. One pass is strictly sequential with
// pacing delays between requests; restarting re-walks from page 1 and
// relies on download idempotency to skip files already on disk.
type Crawler struct {
	cfg        *config.CrawlerConfig
	parser     *Parser
	downloader *Downloader
	collector  *colly.Collector
	logger     *zap.Logger
}

func NewCrawler(cfg *config.CrawlerConfig, logger *zap.Logger) *Crawler {
	c := colly.NewCollector()
	c.UserAgent = cfg.UserAgent
	c.AllowURLRevisit = true
	c.SetRequestTimeout(cfg.ListTimeout)

	return &Crawler{
		cfg:        cfg,
		parser:     NewParser(cfg.BaseURL, logger),
		downloader: NewDownloader(cfg.UserAgent, cfg.BaseURL+"/", cfg.FileTimeout, logger),
		collector:  c,
		logger:     logger,
	}
}

// Crawl runs one pass over pages 1..min(total, MaxPages) and downloads
// attachments under the configured download directory. A failed page fetch
// skips that page only; a failed first page aborts the pass since total-page
// detection needs it.
func (c *Crawler) Crawl(ctx context.Context) (CrawlStats, []models.Announcement, error) {
	var stats CrawlStats

	if err := os.MkdirAll(c.cfg.DownloadDir, 0755); err != nil {
		return stats, nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	firstPage, err := c.fetchPage(1)
	if err != nil {
		return stats, nil, fmt.Errorf("failed to fetch first listing page: %w", err)
	}

	totalPages := c.parser.TotalPages(firstPage)
	if c.cfg.MaxPages > 0 && totalPages > c.cfg.MaxPages {
		totalPages = c.cfg.MaxPages
	}
	c.logger.Info("Starting crawl", zap.Int("pages", totalPages))

	var all []models.Announcement

	for page := 1; page <= totalPages; page++ {
		html := firstPage
		if page > 1 {
			if err := sleepCtx(ctx, c.cfg.PageDelay); err != nil {
				return stats, all, err
			}
			html, err = c.fetchPage(page)
			if err != nil {
				c.logger.Warn("Failed to fetch listing page, skipping",
					zap.Int("page", page),
					zap.Error(err),
				)
				continue
			}
		}
		stats.Pages++

		announcements, err := c.parser.Announcements(html)
		if err != nil {
			c.logger.Warn("Failed to parse listing page, skipping",
				zap.Int("page", page),
				zap.Error(err),
			)
			continue
		}
		if c.cfg.MaxItemsPerPage > 0 && len(announcements) > c.cfg.MaxItemsPerPage {
			announcements = announcements[:c.cfg.MaxItemsPerPage]
		}

		c.logger.Info("Parsed listing page",
			zap.Int("page", page),
			zap.Int("announcements", len(announcements)),
		)

		for _, ann := range announcements {
			stats.Announcements++
			if len(ann.Attachments) == 0 {
				c.logger.Info("Announcement has no attachments",
					zap.String("title", ann.Title),
				)
				continue
			}
			stats.WithAttachments++

			if err := c.downloadAnnouncement(ctx, ann); err != nil {
				if ctx.Err() != nil {
					return stats, all, ctx.Err()
				}
				c.logger.Warn("Failed to download announcement attachments",
					zap.String("title", ann.Title),
					zap.Error(err),
				)
			}
		}

		all = append(all, announcements...)
	}

	c.logger.Info("Crawl finished",
		zap.Int("announcements", stats.Announcements),
		zap.Int("with_attachments", stats.WithAttachments),
		zap.String("download_dir", c.cfg.DownloadDir),
	)

	return stats, all, nil
}

func (c *Crawler) downloadAnnouncement(ctx context.Context, ann models.Announcement) error {
	folder := filepath.Join(c.cfg.DownloadDir, AnnouncementFolder(ann.Number, ann.Title))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("failed to create announcement folder: %w", err)
	}

	for _, att := range ann.Attachments {
		if _, err := c.downloader.Download(ctx, att.URL, att.Name, folder); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("Attachment download failed",
				zap.String("url", att.URL),
				zap.Error(err),
			)
		}
		if err := sleepCtx(ctx, c.cfg.FileDelay); err != nil {
			return err
		}
	}
	return nil
}

// fetchPage retrieves one listing page through a cloned collector.
func (c *Crawler) fetchPage(page int) (string, error) {
	params := url.Values{}
	params.Set("cbIdx", c.cfg.BoardIdx)
	params.Set("year", c.cfg.Year)
	params.Set("month", c.cfg.Month)
	params.Set("pageIndex", fmt.Sprintf("%d", page))

	var body string
	collector := c.collector.Clone()
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", c.cfg.BaseURL+"/")
	})
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	if err := collector.Visit(c.cfg.ListURL + "?" + params.Encode()); err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("empty response for page %d", page)
	}
	return body, nil
}

// AnnouncementFolder builds the per-announcement directory name
// "{number}_{title}" with the title sanitized and capped at 50 runes.
func AnnouncementFolder(number, title string) string {
	safe := SanitizeFilename(title)
	if runes := []rune(safe); len(runes) > titlePrefixLen {
		safe = string(runes[:titlePrefixLen])
	}
	return number + "_" + safe
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

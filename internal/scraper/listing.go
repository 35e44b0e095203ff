package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"grantseek/internal/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var pageIndicatorRe = regexp.MustCompile(`(\d+)/(\d+)`)

// Parser extracts announcements and pagination info from ministry listing
// pages. The selectors are a fixed contract with the target site's markup.
type Parser struct {
	baseURL string
	logger  *zap.Logger
}

func NewParser(baseURL string, logger *zap.Logger) *Parser {
	return &Parser{
		baseURL: baseURL,
		logger:  logger,
	}
}

// Announcements parses the board rows of one listing page. A row that
// cannot be parsed is skipped, the rest of the page is still returned.
func (p *Parser) Announcements(html string) ([]models.Announcement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var announcements []models.Announcement

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("td.subject a.pc-detail").First().Text())
		if title == "" {
			p.logger.Warn("Skipping listing row without title", zap.Int("row", i))
			return
		}

		ann := models.Announcement{
			Number: strings.TrimSpace(row.Find("td:nth-child(1)").First().Text()),
			Title:  title,
			Date:   strings.TrimSpace(row.Find("td:nth-child(4)").First().Text()),
			Views:  strings.TrimSpace(row.Find("td:nth-child(5)").First().Text()),
		}
		if ann.Views == "" {
			ann.Views = "0"
		}

		row.Find("td.attached-files span.single-file").Each(func(_ int, file *goquery.Selection) {
			fileURL, ok := file.Attr("data-href")
			if !ok || fileURL == "" {
				return
			}
			if !strings.HasPrefix(fileURL, "http") {
				fileURL = p.baseURL + fileURL
			}

			name := fmt.Sprintf("file_%d", len(ann.Attachments))
			if idx := strings.LastIndex(fileURL, "streFileNm="); idx >= 0 {
				name = fileURL[idx+len("streFileNm="):]
			}

			ann.Attachments = append(ann.Attachments, models.Attachment{
				Name: name,
				URL:  fileURL,
			})
		})

		announcements = append(announcements, ann)
	})

	return announcements, nil
}

// TotalPages detects the page count of the board. It first looks for the
// "current/total" indicator text, then falls back to the largest numeric
// pagination link, then to 1. Both markers vary across board skins, so the
// fallback chain matters.
func (p *Parser) TotalPages(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}

	if info := doc.Find(".list_info").First(); info.Length() > 0 {
		if m := pageIndicatorRe.FindStringSubmatch(info.Text()); m != nil {
			if total, err := strconv.Atoi(m[2]); err == nil {
				return total
			}
		}
	}

	links := doc.Find(".pagination a.page-link")
	if links.Length() > 0 {
		last := 1
		links.Each(func(_ int, link *goquery.Selection) {
			if n, err := strconv.Atoi(strings.TrimSpace(link.Text())); err == nil && n > last {
				last = n
			}
		})
		return last
	}

	return 1
}

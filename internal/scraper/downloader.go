package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	rfc5987FilenameRe    = regexp.MustCompile(`filename\*=UTF-8''(.+)`)
	plainFilenameRe      = regexp.MustCompile(`filename[^;=\n]*=["']?([^"';]+)`)
)

// knownExtensions are the attachment types the board serves; used to guess
// an extension when the link carries no filename of its own.
var knownExtensions = []string{".hwp", ".pdf", ".xlsx", ".docx", ".hwpx"}

// SanitizeFilename replaces filesystem-illegal characters with underscores.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(illegalFilenameChars.ReplaceAllString(name, "_"))
}

// Downloader fetches attachments to disk. Downloads are idempotent: a file
// that already exists at the target path is never re-fetched.
type Downloader struct {
	client    *http.Client
	userAgent string
	referer   string
	logger    *zap.Logger
}

// NewDownloader builds a Downloader. Attachment responses are streamed to
// disk, so a plain http.Client is used here instead of the colly collector
// the page crawler runs on (colly buffers whole responses in memory).
func NewDownloader(userAgent, referer string, timeout time.Duration, logger *zap.Logger) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		referer:   referer,
		logger:    logger,
	}
}

// Download fetches fileURL into destDir and returns the final path. The
// server may rename the file via Content-Disposition after headers arrive.
func (d *Downloader) Download(ctx context.Context, fileURL, fileName, destDir string) (string, error) {
	safeName := SanitizeFilename(fileName)
	if !strings.Contains(safeName, ".") {
		for _, ext := range knownExtensions {
			if strings.Contains(fileURL, ext) {
				safeName += ext
				break
			}
		}
	}

	filePath := filepath.Join(destDir, safeName)
	if _, err := os.Stat(filePath); err == nil {
		d.logger.Info("Attachment already downloaded, skipping",
			zap.String("file", safeName),
		)
		return filePath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Referer", d.referer)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition")); name != "" {
		safeName = SanitizeFilename(name)
		filePath = filepath.Join(destDir, safeName)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("download of %s failed with status %d", fileURL, resp.StatusCode)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filePath, err)
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	d.logger.Info("Attachment downloaded",
		zap.String("file", safeName),
		zap.Int64("bytes", written),
	)

	return filePath, nil
}

// filenameFromContentDisposition extracts a server-supplied filename,
// preferring the RFC 5987 filename*=UTF-8'' form over the plain one.
func filenameFromContentDisposition(header string) string {
	if header == "" {
		return ""
	}
	if m := rfc5987FilenameRe.FindStringSubmatch(header); m != nil {
		if decoded, err := url.QueryUnescape(m[1]); err == nil {
			return decoded
		}
		return m[1]
	}
	if m := plainFilenameRe.FindStringSubmatch(header); m != nil {
		if decoded, err := url.QueryUnescape(m[1]); err == nil {
			return decoded
		}
		return m[1]
	}
	return ""
}

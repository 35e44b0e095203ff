package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newTestDownloader() *Downloader {
	return NewDownloader("test-agent", "https://example.com/", 5*time.Second, zap.NewNop())
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{`report<2025>.pdf`, "report_2025_.pdf"},
		{`a:b/c\d|e?f*g"h.hwp`, "a_b_c_d_e_f_g_h.hwp"},
		{"  normal.pdf ", "normal.pdf"},
		{"한글 파일명.pdf", "한글 파일명.pdf"},
	}
	for _, tc := range cases {
		got := SanitizeFilename(tc.in)
		assert.Equal(t, tc.want, got)
		assert.NotContains(t, got, "<")
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, "?")
	}
}

func TestDownloadIdempotent(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newTestDownloader()

	first, err := d.Download(context.Background(), srv.URL+"/file", "notice.pdf", dir)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	second, err := d.Download(context.Background(), srv.URL+"/file", "notice.pdf", dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// No second network transfer
	assert.Equal(t, int32(1), hits.Load())
}

func TestDownloadInfersExtensionFromURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newTestDownloader()

	path, err := d.Download(context.Background(), srv.URL+"/down?streFileNm=doc.hwp", "attachment", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "attachment.hwp"), path)
}

func TestDownloadContentDispositionRFC5987(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''%EA%B3%B5%EA%B3%A0%EB%AC%B8.pdf")
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newTestDownloader()

	path, err := d.Download(context.Background(), srv.URL+"/down", "guessed.pdf", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "공고문.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestDownloadContentDispositionPlain(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="server name?.pdf"`)
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newTestDownloader()

	path, err := d.Download(context.Background(), srv.URL+"/down", "guessed.pdf", dir)
	require.NoError(t, err)
	// Server-supplied name wins, still sanitized
	assert.Equal(t, filepath.Join(dir, "server name_.pdf"), path)
}

func TestDownloadHTTPErrorLeavesNoFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newTestDownloader()

	_, err := d.Download(context.Background(), srv.URL+"/missing", "gone.pdf", dir)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "gone.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

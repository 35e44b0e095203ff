package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

const listingFixture = `
<html><body>
<div class="list_info">현재 페이지 : 3/184</div>
<table><tbody>
<tr>
  <td>1024</td>
  <td class="subject"><a class="pc-detail">2025년 AI 바우처 지원사업 공고</a></td>
  <td>중소벤처기업부</td>
  <td>2025-03-02</td>
  <td>152</td>
  <td class="attached-files">
    <span class="single-file" data-href="/cmm/fms/FileDown.do?atchFileId=F1&streFileNm=notice.pdf"></span>
    <span class="single-file" data-href="https://files.example.com/download?streFileNm=guide.hwp"></span>
  </td>
</tr>
<tr>
  <td>1023</td>
  <td class="subject"><a class="pc-detail">창업도약패키지 모집 공고</a></td>
  <td>중소벤처기업부</td>
  <td>2025-02-28</td>
  <td></td>
  <td class="attached-files"></td>
</tr>
<tr>
  <td>1022</td>
  <td class="subject"></td>
  <td colspan="4">malformed row</td>
</tr>
</tbody></table>
</body></html>`

func newTestParser() *Parser {
	return NewParser("https://www.mss.go.kr", zap.NewNop())
}

func TestParserAnnouncements(t *testing.T) {
	t.Parallel()

	anns, err := newTestParser().Announcements(listingFixture)
	require.NoError(t, err)

	// The row without a title is dropped, the rest of the page survives
	require.Len(t, anns, 2)

	first := anns[0]
	assert.Equal(t, "1024", first.Number)
	assert.Equal(t, "2025년 AI 바우처 지원사업 공고", first.Title)
	assert.Equal(t, "2025-03-02", first.Date)
	assert.Equal(t, "152", first.Views)

	require.Len(t, first.Attachments, 2)
	assert.Equal(t, "https://www.mss.go.kr/cmm/fms/FileDown.do?atchFileId=F1&streFileNm=notice.pdf", first.Attachments[0].URL)
	assert.Equal(t, "notice.pdf", first.Attachments[0].Name)
	// Absolute URLs pass through untouched
	assert.Equal(t, "https://files.example.com/download?streFileNm=guide.hwp", first.Attachments[1].URL)
	assert.Equal(t, "guide.hwp", first.Attachments[1].Name)

	second := anns[1]
	assert.Empty(t, second.Attachments)
	assert.Equal(t, "0", second.Views)
}

func TestParserAnnouncementsAttachmentNameFallback(t *testing.T) {
	t.Parallel()

	html := `<table><tbody><tr>
      <td>7</td>
      <td class="subject"><a class="pc-detail">공고</a></td>
      <td>x</td><td>2025-01-01</td><td>1</td>
      <td class="attached-files">
        <span class="single-file" data-href="/download/123"></span>
      </td>
    </tr></tbody></table>`

	anns, err := newTestParser().Announcements(html)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	require.Len(t, anns[0].Attachments, 1)
	assert.Equal(t, "file_0", anns[0].Attachments[0].Name)
}

func TestParserTotalPagesFromIndicator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 184, newTestParser().TotalPages(listingFixture))
}

func TestParserTotalPagesFromPaginationLinks(t *testing.T) {
	t.Parallel()

	html := `<div class="pagination">
	  <a class="page-link">이전</a>
	  <a class="page-link">1</a>
	  <a class="page-link">2</a>
	  <a class="page-link">12</a>
	  <a class="page-link">다음</a>
	</div>`

	assert.Equal(t, 12, newTestParser().TotalPages(html))
}

func TestParserTotalPagesDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, newTestParser().TotalPages("<html><body>no markers</body></html>"))
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grantseek/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// fakeOpenAI captures requests and serves canned chat/embedding responses.
type fakeOpenAI struct {
	chatContent   string
	chatStatus    int
	embedding     []float32
	lastChatBody  map[string]any
	lastEmbedBody map[string]any
}

func (f *fakeOpenAI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&f.lastChatBody)
		if f.chatStatus != 0 {
			http.Error(w, `{"error":{"message":"boom"}}`, f.chatStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": f.chatContent}},
			},
		})
	})
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&f.lastEmbedBody)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": f.embedding, "index": 0},
			},
		})
	})
	return mux
}

func newTestLLM(t *testing.T, fake *fakeOpenAI) *LLMService {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	return NewLLMService(&config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		ChatModel:      "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	}, zap.NewNop())
}

const metadataJSON = `{
  "title": "AI 바우처 지원사업",
  "organization": "중소벤처기업부",
  "deadline": "2025-04-30",
  "fullDeadline": "2025년 4월 말까지",
  "status": "접수중",
  "date": "2025-03-01",
  "description": "중소기업 AI 도입 지원",
  "tags": ["인공지능", "바우처"],
  "overview": "AI 솔루션 도입 비용을 지원하는 사업",
  "objectives": null,
  "eligibility_target": "중소기업",
  "eligibility_requirements": ["중소기업 확인서 보유"],
  "eligibility_restrictions": null,
  "support_amount": "최대 2억원",
  "support_details": null
}`

func TestExtractMetadata(t *testing.T) {
	fake := &fakeOpenAI{chatContent: metadataJSON}
	llm := newTestLLM(t, fake)

	meta, err := llm.ExtractMetadata(context.Background(), "공고문 본문", "notice.pdf")
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	assert.Equal(t, "AI 바우처 지원사업", *meta.Title)
	assert.Equal(t, []string{"인공지능", "바우처"}, meta.Tags)
	assert.Nil(t, meta.Objectives)
	assert.Equal(t, "notice.pdf", meta.SourceFile)

	// The prompt carries the document text and the JSON schema contract
	messages := fake.lastChatBody["messages"].([]any)
	require.Len(t, messages, 2)
	userMsg := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, userMsg, "공고문 본문")
	assert.Contains(t, userMsg, `"eligibility_restrictions"`)
	assert.Contains(t, userMsg, "YYYY-MM-DD")
}

func TestExtractMetadataStripsMarkdownFences(t *testing.T) {
	fake := &fakeOpenAI{chatContent: "```json\n" + metadataJSON + "\n```"}
	llm := newTestLLM(t, fake)

	meta, err := llm.ExtractMetadata(context.Background(), "본문", "a.pdf")
	require.NoError(t, err)
	require.NotNil(t, meta.Organization)
	assert.Equal(t, "중소벤처기업부", *meta.Organization)
}

func TestExtractMetadataTruncatesPromptText(t *testing.T) {
	fake := &fakeOpenAI{chatContent: metadataJSON}
	llm := newTestLLM(t, fake)

	long := strings.Repeat("가", metadataTextLimit+500)
	_, err := llm.ExtractMetadata(context.Background(), long, "a.pdf")
	require.NoError(t, err)

	messages := fake.lastChatBody["messages"].([]any)
	userMsg := messages[1].(map[string]any)["content"].(string)
	assert.Equal(t, metadataTextLimit, strings.Count(userMsg, "가"))
}

func TestExtractMetadataAPIError(t *testing.T) {
	fake := &fakeOpenAI{chatStatus: http.StatusInternalServerError}
	llm := newTestLLM(t, fake)

	_, err := llm.ExtractMetadata(context.Background(), "본문", "a.pdf")
	require.Error(t, err)
}

func TestExtractMetadataInvalidJSON(t *testing.T) {
	fake := &fakeOpenAI{chatContent: "죄송합니다, 분석할 수 없습니다."}
	llm := newTestLLM(t, fake)

	_, err := llm.ExtractMetadata(context.Background(), "본문", "a.pdf")
	require.Error(t, err)
}

func TestCreateEmbedding(t *testing.T) {
	fake := &fakeOpenAI{embedding: []float32{0.1, 0.2, 0.3}}
	llm := newTestLLM(t, fake)

	vec, err := llm.CreateEmbedding(context.Background(), "인공지능 지원사업")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestCreateEmbeddingTruncatesInput(t *testing.T) {
	fake := &fakeOpenAI{embedding: []float32{0.5}}
	llm := newTestLLM(t, fake)

	long := strings.Repeat("나", embeddingTextLimit+1000)
	_, err := llm.CreateEmbedding(context.Background(), long)
	require.NoError(t, err)

	inputs := fake.lastEmbedBody["input"].([]any)
	require.Len(t, inputs, 1)
	assert.Len(t, []rune(inputs[0].(string)), embeddingTextLimit)
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "가나", truncateRunes("가나다라", 2))
	assert.Equal(t, "", truncateRunes("", 5))
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grantseek/internal/models"
	"grantseek/pkg/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Text sent to the chat model and text sent to the embedding model are
// capped independently. The two limits are deliberate and distinct: prompts
// tolerate more context than the embedding model needs.
const (
	metadataTextLimit  = 15000
	embeddingTextLimit = 8000
)

// extractionSystemPrompt pins the model to strict-JSON output.
const extractionSystemPrompt = "정부 과제 공고문을 분석하여 구조화된 메타데이터를 추출합니다. 반드시 유효한 JSON만 응답하세요."

// LLMService talks to the OpenAI API for both metadata extraction and
// embedding generation. The client is built once at startup and shared.
type LLMService struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	logger         *zap.Logger
}

func NewLLMService(cfg *config.OpenAIConfig, logger *zap.Logger) *LLMService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &LLMService{
		client:         openai.NewClientWithConfig(clientConfig),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger,
	}
}

// buildExtractionPrompt renders the fixed extraction instruction. The JSON
// schema, the YYYY-MM-DD date format and the bare-keyword tag convention
// are a contract with the model; downstream parsing depends on them.
func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(`다음은 정부 과제 공고문입니다. 이 내용을 분석하여 JSON 형식으로 메타데이터를 추출해주세요.

공고문 내용:
%s

다음 JSON 형식으로 추출해주세요:

{
  "title": "과제명",
  "organization": "주관기관명",
  "deadline": "접수 마감일 (YYYY-MM-DD 형식)",
  "fullDeadline": "전체 사업기간",
  "status": "접수중",
  "date": "공고일 (YYYY-MM-DD 형식)",
  "description": "과제 한줄 설명 (100자 이내)",
  "tags": ["태그1", "태그2", "태그3"],
  "overview": "사업 개요 (300자 이내)",
  "objectives": ["목표1", "목표2"],
  "eligibility_target": "지원 대상",
  "eligibility_requirements": ["자격요건1", "자격요건2"],
  "eligibility_restrictions": ["제외대상1"],
  "support_amount": "지원금액 요약",
  "support_details": ["지원내역1", "지원내역2"]
}

중요:
- 문서에 없는 정보는 null로 표시
- 날짜는 YYYY-MM-DD 형식
- tags는 #없이 키워드만 (예: "인공지능", "R&D")
- 유효한 JSON만 응답`, truncateRunes(text, metadataTextLimit))
}

// ExtractMetadata sends announcement text to the chat model and parses the
// structured reply. One attempt per document; any API or parse failure
// fails the document.
func (s *LLMService) ExtractMetadata(ctx context.Context, text, filename string) (*models.ProjectMetadata, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildExtractionPrompt(text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract metadata: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var metadata models.ProjectMetadata
	if err := json.Unmarshal([]byte(content), &metadata); err != nil {
		// Some models wrap JSON-mode output in markdown fences anyway
		cleaned := strings.TrimSpace(content)
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)

		if err := json.Unmarshal([]byte(cleaned), &metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
		}
	}

	metadata.SourceFile = filename

	s.logger.Info("Metadata extracted",
		zap.String("file", filename),
		zap.Stringp("title", metadata.Title),
	)

	return &metadata, nil
}

// CreateEmbedding converts text into a fixed-dimension vector.
func (s *LLMService) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.embeddingModel),
		Input: []string{truncateRunes(text, embeddingTextLimit)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return resp.Data[0].Embedding, nil
}

// truncateRunes caps s at n runes. Announcement text is Korean, so byte
// slicing would split characters.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

package service

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"grantseek/internal/models"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// contentExcerptLimit caps the raw-text excerpt stored alongside each
// record. Independent from the prompt and embedding caps.
const contentExcerptLimit = 5000

// TextExtractor turns a PDF on disk into raw text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// MetadataExtractor turns announcement text into a structured record.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, text, filename string) (*models.ProjectMetadata, error)
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ProjectStore persists finished project records.
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) (int64, error)
}

// IngestService runs the extract → structure → embed → store pipeline over
// downloaded PDFs. Files are processed one at a time; a failure in any step
// drops that file only and the walk continues.
type IngestService struct {
	extractor TextExtractor
	llm       MetadataExtractor
	embedder  Embedder
	store     ProjectStore
	logger    *zap.Logger
}

func NewIngestService(
	extractor TextExtractor,
	llm MetadataExtractor,
	embedder Embedder,
	store ProjectStore,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		llm:       llm,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

// ProcessDirectory ingests every PDF under root (recursively, extension
// matched case-insensitively) and returns success and failure tallies.
func (s *IngestService) ProcessDirectory(ctx context.Context, root string) (processed, failed int, err error) {
	var pdfFiles []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			pdfFiles = append(pdfFiles, path)
		}
		return nil
	})
	if walkErr != nil {
		return 0, 0, fmt.Errorf("failed to scan %s: %w", root, walkErr)
	}

	s.logger.Info("Starting ingestion",
		zap.String("root", root),
		zap.Int("files", len(pdfFiles)),
	)

	for i, path := range pdfFiles {
		if ctx.Err() != nil {
			return processed, failed, ctx.Err()
		}

		s.logger.Info("Processing PDF",
			zap.Int("index", i+1),
			zap.Int("total", len(pdfFiles)),
			zap.String("file", filepath.Base(path)),
		)

		if _, err := s.ProcessFile(ctx, path); err != nil {
			failed++
			s.logger.Warn("Failed to ingest PDF",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	s.logger.Info("Ingestion finished",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)

	return processed, failed, nil
}

// ProcessFile ingests a single PDF and returns the new record id. No step
// writes anything until all steps have succeeded, so a failed file never
// leaves a partial row behind.
func (s *IngestService) ProcessFile(ctx context.Context, pdfPath string) (int64, error) {
	text, err := s.extractor.ExtractText(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("text extraction: %w", err)
	}

	filename := filepath.Base(pdfPath)
	metadata, err := s.llm.ExtractMetadata(ctx, text, filename)
	if err != nil {
		return 0, fmt.Errorf("metadata extraction: %w", err)
	}

	embedding, err := s.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embedding: %w", err)
	}

	project := flattenProject(text, metadata, embedding)

	id, err := s.store.Create(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	s.logger.Info("Project stored",
		zap.Int64("id", id),
		zap.String("file", filename),
	)

	return id, nil
}

// flattenProject folds extracted metadata, a raw-text excerpt and the
// embedding into one storable row.
func flattenProject(text string, metadata *models.ProjectMetadata, embedding []float32) *models.Project {
	project := &models.Project{
		Content:                 truncateRunes(text, contentExcerptLimit),
		Embedding:               pgvector.NewVector(embedding),
		Title:                   metadata.Title,
		Organization:            metadata.Organization,
		Deadline:                models.ParseDate(metadata.Deadline),
		FullDeadline:            metadata.FullDeadline,
		Status:                  metadata.Status,
		AnnouncementDate:        models.ParseDate(metadata.Date),
		Description:             metadata.Description,
		Tags:                    metadata.Tags,
		Overview:                metadata.Overview,
		Objectives:              metadata.Objectives,
		EligibilityTarget:       metadata.EligibilityTarget,
		EligibilityRequirements: metadata.EligibilityRequirements,
		EligibilityRestrictions: metadata.EligibilityRestrictions,
		SupportAmount:           metadata.SupportAmount,
		SupportDetails:          metadata.SupportDetails,
		SourceFile:              &metadata.SourceFile,
		CreatedAt:               time.Now(),
	}
	project.Normalize()
	return project
}

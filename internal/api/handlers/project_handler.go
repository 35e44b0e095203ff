package handlers

import (
	"context"
	"errors"

	"grantseek/internal/dto"
	"grantseek/internal/models"
	"grantseek/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultSearchLimit = 10
	defaultFilterLimit = 20
	maxLimit           = 50
	defaultThreshold   = 0.2
)

// ProjectReader is the read surface of the project store the handlers use.
type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Recent(ctx context.Context, limit int) ([]*models.Project, error)
	Filter(ctx context.Context, params repository.FilterParams) ([]*models.Project, error)
	HybridSearch(ctx context.Context, queryText string, embedding []float32, threshold float64, limit int) ([]*models.Project, error)
	Stats(ctx context.Context) (total int, organizations int, top []repository.OrganizationCount, err error)
}

// QueryEmbedder embeds free-text search queries.
type QueryEmbedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type ProjectHandler struct {
	store    ProjectReader
	embedder QueryEmbedder
	logger   *zap.Logger
}

func NewProjectHandler(store ProjectReader, embedder QueryEmbedder, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Search handles GET /api/search: embed the query, then rank server-side.
func (h *ProjectHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter q is required",
		})
	}

	limit := clampLimit(c.QueryInt("limit", defaultSearchLimit))
	threshold := clampThreshold(c.QueryFloat("threshold", defaultThreshold))

	embedding, err := h.embedder.CreateEmbedding(c.Context(), query)
	if err != nil {
		h.logger.Error("Failed to embed search query", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create query embedding",
		})
	}

	projects, err := h.store.HybridSearch(c.Context(), query, embedding, threshold, limit)
	if err != nil {
		h.logger.Error("Hybrid search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results := make([]dto.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		results = append(results, dto.NewProjectSummary(p, p.Similarity))
	}
	return c.JSON(results)
}

// GetProject handles GET /api/project/:id.
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid project id",
		})
	}

	project, err := h.store.GetByID(c.Context(), int64(id))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "project not found",
		})
	}
	if err != nil {
		h.logger.Error("Failed to fetch project", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.NewProjectDetail(project))
}

// Recent handles GET /api/projects/recent. Results are not similarity
// ranked, so each carries the 1.0 sentinel.
func (h *ProjectHandler) Recent(c *fiber.Ctx) error {
	limit := clampLimit(c.QueryInt("limit", defaultSearchLimit))

	projects, err := h.store.Recent(c.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list recent projects", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summariesWithSentinel(projects))
}

// Filter handles GET /api/projects/filter. Unset filters impose no
// constraint; set filters combine.
func (h *ProjectHandler) Filter(c *fiber.Ctx) error {
	params := repository.FilterParams{
		Organization: c.Query("organization"),
		Status:       c.Query("status"),
		Tag:          c.Query("tag"),
		Limit:        clampLimit(c.QueryInt("limit", defaultFilterLimit)),
	}

	projects, err := h.store.Filter(c.Context(), params)
	if err != nil {
		h.logger.Error("Failed to filter projects", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summariesWithSentinel(projects))
}

// Stats handles GET /api/stats.
func (h *ProjectHandler) Stats(c *fiber.Ctx) error {
	total, organizations, top, err := h.store.Stats(c.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.NewStatsResponse(total, organizations, top))
}

func summariesWithSentinel(projects []*models.Project) []dto.ProjectSummary {
	results := make([]dto.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		results = append(results, dto.NewProjectSummary(p, 1.0))
	}
	return results
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func clampThreshold(threshold float64) float64 {
	if threshold < 0 {
		return 0
	}
	if threshold > 1 {
		return 1
	}
	return threshold
}

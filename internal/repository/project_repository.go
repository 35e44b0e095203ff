package repository

import (
	"context"
	"errors"

	"grantseek/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// ErrNotFound reports a lookup for a project id that does not exist.
var ErrNotFound = errors.New("project not found")

// summaryColumns is the field set returned by list endpoints.
var summaryColumns = []string{"id", "title", "organization", "deadline", "description", "tags"}

// FilterParams are the optional attribute filters. Zero values impose no
// constraint.
type FilterParams struct {
	Organization string
	Status       string
	Tag          string
	Limit        int
}

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts one project row and returns the assigned id. Rows are
// never deduplicated: ingesting the same PDF twice stores two records.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (int64, error) {
	query := squirrel.Insert("government_projects").
		Columns("content", "embedding", "title", "organization", "deadline", "full_deadline",
			"status", "announcement_date", "description", "tags", "overview", "objectives",
			"eligibility_target", "eligibility_requirements", "eligibility_restrictions",
			"support_amount", "support_details", "source_file", "created_at").
		Values(p.Content, p.Embedding, p.Title, p.Organization, p.Deadline, p.FullDeadline,
			p.Status, p.AnnouncementDate, p.Description, p.Tags, p.Overview, p.Objectives,
			p.EligibilityTarget, p.EligibilityRequirements, p.EligibilityRestrictions,
			p.SupportAmount, p.SupportDetails, p.SourceFile, p.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID fetches the full record for one project.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := squirrel.Select("id", "content", "title", "organization", "deadline", "full_deadline",
		"status", "announcement_date", "description", "tags", "overview", "objectives",
		"eligibility_target", "eligibility_requirements", "eligibility_restrictions",
		"support_amount", "support_details", "source_file", "created_at").
		From("government_projects").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Project
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.Content, &p.Title, &p.Organization, &p.Deadline, &p.FullDeadline,
		&p.Status, &p.AnnouncementDate, &p.Description, &p.Tags, &p.Overview, &p.Objectives,
		&p.EligibilityTarget, &p.EligibilityRequirements, &p.EligibilityRestrictions,
		&p.SupportAmount, &p.SupportDetails, &p.SourceFile, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Normalize()
	return &p, nil
}

// Recent lists the newest projects by creation time.
func (r *ProjectRepository) Recent(ctx context.Context, limit int) ([]*models.Project, error) {
	query := squirrel.Select(summaryColumns...).
		From("government_projects").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySummaries(ctx, query)
}

// Filter lists projects matching the combination of the set filters,
// newest first.
func (r *ProjectRepository) Filter(ctx context.Context, params FilterParams) ([]*models.Project, error) {
	query := squirrel.Select(summaryColumns...).
		From("government_projects").
		OrderBy("created_at DESC").
		Limit(uint64(params.Limit)).
		PlaceholderFormat(squirrel.Dollar)

	if params.Organization != "" {
		query = query.Where(squirrel.ILike{"organization": "%" + params.Organization + "%"})
	}
	if params.Status != "" {
		query = query.Where(squirrel.Eq{"status": params.Status})
	}
	if params.Tag != "" {
		query = query.Where(squirrel.Expr("? = ANY(tags)", params.Tag))
	}

	return r.querySummaries(ctx, query)
}

func (r *ProjectRepository) querySummaries(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Project, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Organization, &p.Deadline, &p.Description, &p.Tags); err != nil {
			return nil, err
		}
		p.Normalize()
		results = append(results, &p)
	}
	return results, rows.Err()
}

// HybridSearch invokes the server-side lexical+vector ranking function and
// returns rows at or above the similarity threshold, best first. The
// ranking algorithm itself lives in the database.
func (r *ProjectRepository) HybridSearch(ctx context.Context, queryText string, embedding []float32, threshold float64, limit int) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, organization, deadline, description, tags, similarity
		 FROM hybrid_search_projects($1, $2, $3, $4)`,
		queryText, pgvector.NewVector(embedding), threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Organization, &p.Deadline, &p.Description, &p.Tags, &p.Similarity); err != nil {
			return nil, err
		}
		p.Normalize()
		results = append(results, &p)
	}
	return results, rows.Err()
}

// OrganizationCount is one top-organizations entry.
type OrganizationCount struct {
	Name  string
	Count int
}

// Stats aggregates corpus-wide counts. Top organizations are ordered by
// record count, ties broken alphabetically so the order is deterministic.
func (r *ProjectRepository) Stats(ctx context.Context) (total int, organizations int, top []OrganizationCount, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT organization) FROM government_projects`,
	).Scan(&total, &organizations)
	if err != nil {
		return 0, 0, nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT organization, COUNT(*) AS cnt
		 FROM government_projects
		 WHERE organization IS NOT NULL
		 GROUP BY organization
		 ORDER BY cnt DESC, organization ASC
		 LIMIT 5`,
	)
	if err != nil {
		return 0, 0, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var oc OrganizationCount
		if err := rows.Scan(&oc.Name, &oc.Count); err != nil {
			return 0, 0, nil, err
		}
		top = append(top, oc)
	}
	return total, organizations, top, rows.Err()
}

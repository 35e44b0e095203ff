package dto

import (
	"time"

	"grantseek/internal/models"
)

// ProjectSummary is the list-endpoint item shape. Similarity is the hybrid
// search score, or the 1.0 sentinel on listings that are not ranked.
type ProjectSummary struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Deadline     *string  `json:"deadline"`
	Description  *string  `json:"description"`
	Tags         []string `json:"tags"`
	Similarity   float64  `json:"similarity"`
}

// ProjectDetail is the full record shape. Multi-valued fields are always
// present as arrays, never null.
type ProjectDetail struct {
	ID                      int64    `json:"id"`
	Title                   string   `json:"title"`
	Organization            string   `json:"organization"`
	Deadline                *string  `json:"deadline"`
	FullDeadline            *string  `json:"full_deadline"`
	Status                  *string  `json:"status"`
	AnnouncementDate        *string  `json:"announcement_date"`
	Description             *string  `json:"description"`
	Tags                    []string `json:"tags"`
	Overview                *string  `json:"overview"`
	Objectives              []string `json:"objectives"`
	EligibilityTarget       *string  `json:"eligibility_target"`
	EligibilityRequirements []string `json:"eligibility_requirements"`
	EligibilityRestrictions []string `json:"eligibility_restrictions"`
	SupportAmount           *string  `json:"support_amount"`
	SupportDetails          []string `json:"support_details"`
	SourceFile              *string  `json:"source_file"`
}

func NewProjectSummary(p *models.Project, similarity float64) ProjectSummary {
	p.Normalize()
	return ProjectSummary{
		ID:           p.ID,
		Title:        stringValue(p.Title),
		Organization: stringValue(p.Organization),
		Deadline:     formatDate(p.Deadline),
		Description:  p.Description,
		Tags:         p.Tags,
		Similarity:   similarity,
	}
}

func NewProjectDetail(p *models.Project) ProjectDetail {
	p.Normalize()
	return ProjectDetail{
		ID:                      p.ID,
		Title:                   stringValue(p.Title),
		Organization:            stringValue(p.Organization),
		Deadline:                formatDate(p.Deadline),
		FullDeadline:            p.FullDeadline,
		Status:                  p.Status,
		AnnouncementDate:        formatDate(p.AnnouncementDate),
		Description:             p.Description,
		Tags:                    p.Tags,
		Overview:                p.Overview,
		Objectives:              p.Objectives,
		EligibilityTarget:       p.EligibilityTarget,
		EligibilityRequirements: p.EligibilityRequirements,
		EligibilityRestrictions: p.EligibilityRestrictions,
		SupportAmount:           p.SupportAmount,
		SupportDetails:          p.SupportDetails,
		SourceFile:              p.SourceFile,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}

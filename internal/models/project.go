package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Project is one persisted grant announcement, flattened to a single row.
// A row is written exactly once per successfully ingested PDF and never
// updated afterwards.
type Project struct {
	ID                      int64           `db:"id"`
	Content                 string          `db:"content"`
	Embedding               pgvector.Vector `db:"embedding"`
	Title                   *string         `db:"title"`
	Organization            *string         `db:"organization"`
	Deadline                *time.Time      `db:"deadline"`
	FullDeadline            *string         `db:"full_deadline"`
	Status                  *string         `db:"status"`
	AnnouncementDate        *time.Time      `db:"announcement_date"`
	Description             *string         `db:"description"`
	Tags                    []string        `db:"tags"`
	Overview                *string         `db:"overview"`
	Objectives              []string        `db:"objectives"`
	EligibilityTarget       *string         `db:"eligibility_target"`
	EligibilityRequirements []string        `db:"eligibility_requirements"`
	EligibilityRestrictions []string        `db:"eligibility_restrictions"`
	SupportAmount           *string         `db:"support_amount"`
	SupportDetails          []string        `db:"support_details"`
	SourceFile              *string         `db:"source_file"`
	CreatedAt               time.Time       `db:"created_at"`
	Similarity              float64         `db:"-"`
}

// Normalize replaces nil multi-valued fields with empty slices. Callers
// always see a sequence, never null, no matter what the extraction produced.
func (p *Project) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Objectives == nil {
		p.Objectives = []string{}
	}
	if p.EligibilityRequirements == nil {
		p.EligibilityRequirements = []string{}
	}
	if p.EligibilityRestrictions == nil {
		p.EligibilityRestrictions = []string{}
	}
	if p.SupportDetails == nil {
		p.SupportDetails = []string{}
	}
}

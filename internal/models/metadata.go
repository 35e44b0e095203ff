package models

import "time"

// ProjectMetadata mirrors the JSON object the extraction prompt asks the
// model for. Field names are part of the prompt contract; fields missing
// from the document come back as null.
type ProjectMetadata struct {
	Title                   *string  `json:"title"`
	Organization            *string  `json:"organization"`
	Deadline                *string  `json:"deadline"`
	FullDeadline            *string  `json:"fullDeadline"`
	Status                  *string  `json:"status"`
	Date                    *string  `json:"date"`
	Description             *string  `json:"description"`
	Tags                    []string `json:"tags"`
	Overview                *string  `json:"overview"`
	Objectives              []string `json:"objectives"`
	EligibilityTarget       *string  `json:"eligibility_target"`
	EligibilityRequirements []string `json:"eligibility_requirements"`
	EligibilityRestrictions []string `json:"eligibility_restrictions"`
	SupportAmount           *string  `json:"support_amount"`
	SupportDetails          []string `json:"support_details"`
	SourceFile              string   `json:"source_file"`
}

// ParseDate parses a prompt-format date (YYYY-MM-DD). Values the model
// could not normalize come back nil rather than failing the document.
func ParseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

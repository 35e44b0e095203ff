package dto

import (
	"encoding/json"

	"grantseek/internal/repository"
)

// OrgCount serializes as a ["name", count] pair to preserve the wire shape
// frontends already consume.
type OrgCount struct {
	Name  string
	Count int
}

func (o OrgCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Name, o.Count})
}

type StatsResponse struct {
	TotalProjects    int        `json:"total_projects"`
	Organizations    int        `json:"organizations"`
	TopOrganizations []OrgCount `json:"top_organizations"`
}

func NewStatsResponse(total, organizations int, top []repository.OrganizationCount) StatsResponse {
	pairs := make([]OrgCount, 0, len(top))
	for _, oc := range top {
		pairs = append(pairs, OrgCount{Name: oc.Name, Count: oc.Count})
	}
	return StatsResponse{
		TotalProjects:    total,
		Organizations:    organizations,
		TopOrganizations: pairs,
	}
}

package dto

import (
	"encoding/json"
	"testing"
	"time"

	"grantseek/internal/models"
	"grantseek/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectDetailNormalizesArrays(t *testing.T) {
	t.Parallel()

	title := "과제"
	p := &models.Project{ID: 1, Title: &title}

	detail := NewProjectDetail(p)

	data, err := json.Marshal(detail)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, field := range []string{"tags", "objectives", "eligibility_requirements", "eligibility_restrictions", "support_details"} {
		arr, ok := decoded[field].([]any)
		assert.True(t, ok, "field %s should serialize as an array", field)
		assert.Empty(t, arr)
	}
}

func TestNewProjectSummaryDates(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	p := &models.Project{ID: 3, Deadline: &deadline}

	summary := NewProjectSummary(p, 0.7)
	require.NotNil(t, summary.Deadline)
	assert.Equal(t, "2025-04-30", *summary.Deadline)
	assert.Equal(t, 0.7, summary.Similarity)

	noDeadline := NewProjectSummary(&models.Project{ID: 4}, 1.0)
	assert.Nil(t, noDeadline.Deadline)
	assert.Equal(t, "", noDeadline.Title)
}

func TestStatsResponsePairShape(t *testing.T) {
	t.Parallel()

	resp := NewStatsResponse(10, 3, []repository.OrganizationCount{
		{Name: "중기부", Count: 6},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_projects":10,"organizations":3,"top_organizations":[["중기부",6]]}`, string(data))
}

func TestStatsResponseEmptyTop(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewStatsResponse(0, 0, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_projects":0,"organizations":0,"top_organizations":[]}`, string(data))
}

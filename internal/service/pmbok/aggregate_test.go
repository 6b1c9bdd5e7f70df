package pmbok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
)

func TestEngine_PortfolioMetrics(t *testing.T) {
	e := newTestEngine()
	projects := []model.Project{
		projectWithDates(-40, -10), // overdue
		projectWithDates(-20, 5),   // inside the at-risk window
		{ID: "undated", Status: "Assigned"},
		projectWithDates(-10, 30), // on track
	}

	m := e.PortfolioMetrics(projects)

	assert.Equal(t, 4, m.TotalProjects)
	assert.Equal(t, 1, m.OverdueCount)
	// unknown schedules carry zero variance and count as at risk
	assert.Equal(t, 2, m.AtRiskCount)
	assert.Equal(t, 1, m.OnTrackCount)

	assert.Equal(t, 1, m.ScheduleHealth["red"])
	assert.Equal(t, 1, m.ScheduleHealth["yellow"])
	assert.Equal(t, 1, m.ScheduleHealth["green"])
	assert.Equal(t, 1, m.ScheduleHealth["gray"])

	riskTotal := 0
	for _, n := range m.RiskDistribution {
		riskTotal += n
	}
	assert.Equal(t, 4, riskTotal)

	phaseTotal := 0
	for _, n := range m.ProcessDistribution {
		phaseTotal += n
	}
	assert.Equal(t, 4, phaseTotal)
	for _, group := range pmbok.ProcessGroupOrder {
		_, ok := m.ProcessDistribution[group]
		assert.True(t, ok, "process group %q missing", group)
	}
}

func TestEngine_PortfolioMetrics_Empty(t *testing.T) {
	e := newTestEngine()
	m := e.PortfolioMetrics(nil)
	assert.Zero(t, m.TotalProjects)
	assert.Nil(t, m.ProcessDistribution)
}

func TestStatusCategorySummary(t *testing.T) {
	projects := []model.Project{
		{ID: "P1", Status: "Assigned"},
		{ID: "P2", Status: "In Progress"},
		{ID: "P3", Status: "Assigned"},
	}
	overrides := model.OverrideMap{
		"P3": {Status: "Completed"},
	}

	summary := pmbok.StatusCategorySummary(projects, overrides)

	require.Len(t, summary, len(pmbok.StatusCategories))
	counts := make(map[string]int)
	for i, s := range summary {
		assert.Equal(t, pmbok.StatusCategories[i].Key, s.Category.Key, "display order")
		counts[s.Category.Key] = s.Count
	}
	assert.Equal(t, 1, counts["not_started"])
	assert.Equal(t, 1, counts["in_progress"])
	assert.Equal(t, 1, counts["completed"], "override status wins")
}

func TestProjectsInCategory(t *testing.T) {
	projects := []model.Project{
		{ID: "P1", Status: "Assigned"},
		{ID: "P2", Status: "In Progress"},
	}

	in := pmbok.ProjectsInCategory(projects, model.OverrideMap{}, "in_progress")
	require.Len(t, in, 1)
	assert.Equal(t, "P2", in[0].ID)

	assert.Empty(t, pmbok.ProjectsInCategory(projects, model.OverrideMap{}, "cancelled"))
}

func TestAnalyzeStakeholders(t *testing.T) {
	p := model.Project{
		ClientName:  "Jordan Reeves",
		ClientEmail: "jordan.reeves@gov.bc.ca",
		Ministry:    "Water, Land and Resource Stewardship",
		TeamMembers: []model.ResourceAssignment{{Name: "Ana"}, {Name: ""}},
	}

	a := pmbok.AnalyzeStakeholders(p, "Casey")

	require.Len(t, a.Primary, 4)
	assert.Equal(t, "Jordan Reeves", a.Primary[0].Name)
	assert.Equal(t, "Casey", a.Primary[1].Name)
	assert.Equal(t, "Unknown", a.Primary[3].Name)

	require.Len(t, a.Secondary, 1)
	assert.Equal(t, "Ministry/Department", a.Secondary[0].Role)

	// internal client email pulls everyone into the internal bucket
	assert.Len(t, a.Internal, 5)
	assert.Empty(t, a.External)
}

func TestAnalyzeStakeholders_ExternalClient(t *testing.T) {
	p := model.Project{
		ClientName:  "Avery Zhang",
		ClientEmail: "avery@example.com",
	}

	a := pmbok.AnalyzeStakeholders(p, "Casey")

	require.Len(t, a.Primary, 2)
	assert.Empty(t, a.Internal)
	assert.Len(t, a.External, 2)
}

package pmbok_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *pmbok.Engine {
	return pmbok.NewEngineWithClock(func() time.Time { return testNow })
}

func projectWithDates(requestedOffset, requiredOffset int) model.Project {
	return model.Project{
		ID:            "P1",
		Status:        "Assigned",
		DateRequested: testNow.AddDate(0, 0, requestedOffset).UnixMilli(),
		DateRequired:  testNow.AddDate(0, 0, requiredOffset).UnixMilli(),
	}
}

func TestEngine_Phase(t *testing.T) {
	e := newTestEngine()

	recent := projectWithDates(-5, 30)
	assert.Equal(t, "initiating", e.Phase(recent))

	aged := projectWithDates(-20, 30)
	assert.Equal(t, "executing", e.Phase(aged))

	undated := model.Project{Status: "Assigned"}
	assert.Equal(t, "planning", e.Phase(undated))

	assert.Equal(t, "executing", e.Phase(model.Project{Status: "In Progress"}))
	assert.Equal(t, "closing", e.Phase(model.Project{Status: "Completed"}))
	assert.Equal(t, "monitoring", e.Phase(model.Project{Status: "On Hold"}))
	assert.Equal(t, "initiating", e.Phase(model.Project{Status: "Something Else"}))
}

func TestEngine_SchedulePerformance_OnTrack(t *testing.T) {
	e := newTestEngine()
	perf := e.SchedulePerformance(projectWithDates(-20, 10))

	require.True(t, perf.HasSPI)
	assert.Equal(t, "On Track", perf.Status)
	assert.Equal(t, "green", perf.Health)
	assert.Equal(t, 1.0, perf.SPI)
	assert.Equal(t, 30, perf.TotalDuration)
	assert.Equal(t, 20, perf.ElapsedDuration)
	assert.Equal(t, 10, perf.VarianceDays)
}

func TestEngine_SchedulePerformance_AtRisk(t *testing.T) {
	e := newTestEngine()
	perf := e.SchedulePerformance(projectWithDates(-20, 5))

	assert.Equal(t, "At Risk", perf.Status)
	assert.Equal(t, "yellow", perf.Health)
	assert.Equal(t, 5, perf.VarianceDays)
}

func TestEngine_SchedulePerformance_Overdue(t *testing.T) {
	e := newTestEngine()
	perf := e.SchedulePerformance(projectWithDates(-40, -10))

	assert.Equal(t, "Overdue", perf.Status)
	assert.Equal(t, "red", perf.Health)
	assert.Equal(t, -10, perf.VarianceDays)
	// elapsed 40 over a 30 day plan caps actual progress at completion
	assert.Equal(t, 0.75, perf.SPI)
}

func TestEngine_SchedulePerformance_MissingDates(t *testing.T) {
	e := newTestEngine()

	for _, p := range []model.Project{
		{},
		{DateRequested: testNow.AddDate(0, 0, -20).UnixMilli()},
		{DateRequired: testNow.AddDate(0, 0, 10).UnixMilli()},
	} {
		perf := e.SchedulePerformance(p)
		assert.Equal(t, "Unknown", perf.Status)
		assert.Equal(t, "gray", perf.Health)
		assert.False(t, perf.HasSPI)
		assert.Zero(t, perf.VarianceDays)
	}
}

func TestEngine_SchedulePerformance_Deterministic(t *testing.T) {
	e := newTestEngine()
	p := projectWithDates(-20, 5)

	first := e.SchedulePerformance(p)
	second := e.SchedulePerformance(p)
	assert.Equal(t, first, second)
}

func TestEngine_RiskLevel(t *testing.T) {
	e := newTestEngine()

	// overdue schedule, urgent priority, solo team
	high := projectWithDates(-10, -1)
	high.Priority = "Urgent"
	risk := e.RiskLevel(high)
	assert.Equal(t, 6, risk.Score)
	assert.Equal(t, "High", risk.Level)
	assert.Equal(t, "red", risk.Color)

	// at-risk schedule, high priority, team of two
	medium := projectWithDates(-20, 5)
	medium.Priority = "High"
	medium.TeamMembers = []model.ResourceAssignment{{Name: "Ana"}}
	risk = e.RiskLevel(medium)
	assert.Equal(t, 3, risk.Score)
	assert.Equal(t, "Medium", risk.Level)

	// healthy schedule, large team adds coordination overhead only
	low := projectWithDates(-10, 30)
	low.TeamMembers = []model.ResourceAssignment{
		{Name: "Ana"}, {Name: "Ben"}, {Name: "Cleo"}, {Name: "Dev"},
	}
	risk = e.RiskLevel(low)
	assert.Equal(t, 1, risk.Score)
	assert.Equal(t, "Low", risk.Level)
	assert.Equal(t, "green", risk.Color)
}

func TestEngine_DaysUntilDue(t *testing.T) {
	e := newTestEngine()

	days, ok := e.DaysUntilDue(model.Project{DueDateRaw: float64(testNow.AddDate(0, 0, 8).UnixMilli())})
	require.True(t, ok)
	assert.Equal(t, 8, days)

	days, ok = e.DaysUntilDue(model.Project{DueDateRaw: "2025-06-20"})
	require.True(t, ok)
	assert.Equal(t, 4, days)

	days, ok = e.DaysUntilDue(model.Project{DueDateRaw: "6/20/2025"})
	require.True(t, ok)
	assert.Equal(t, 4, days)

	for _, raw := range []any{nil, "", "None", "not a date", true} {
		_, ok = e.DaysUntilDue(model.Project{DueDateRaw: raw})
		assert.False(t, ok, "raw %v should not parse", raw)
	}
}

func TestDueDateStatus(t *testing.T) {
	cases := []struct {
		days  int
		known bool
		label string
		color string
	}{
		{0, false, "No due date", "gray"},
		{-3, true, "3 days overdue", "red"},
		{0, true, "Due today", "red"},
		{5, true, "5 days left", "yellow"},
		{7, true, "7 days left", "yellow"},
		{8, true, "8 days left", "blue"},
		{30, true, "30 days left", "blue"},
		{31, true, "31 days left", "green"},
	}
	for _, c := range cases {
		label, color := pmbok.DueDateStatus(c.days, c.known)
		assert.Equal(t, c.label, label)
		assert.Equal(t, c.color, color)
	}
}

func TestEngine_SortByDueDate(t *testing.T) {
	e := newTestEngine()
	projects := []model.Project{
		{ID: "far", DueDateRaw: float64(testNow.AddDate(0, 0, 10).UnixMilli())},
		{ID: "overdue", DueDateRaw: float64(testNow.AddDate(0, 0, -5).UnixMilli())},
		{ID: "undated"},
		{ID: "soon", DueDateRaw: float64(testNow.AddDate(0, 0, 2).UnixMilli())},
	}

	sorted := e.SortByDueDate(projects)

	var ids []string
	for _, p := range sorted {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"overdue", "soon", "far", "undated"}, ids)
	assert.Equal(t, "far", projects[0].ID, "input order is preserved")
}

func TestTeamMembersList(t *testing.T) {
	p := model.Project{
		Attrs: model.Attributes{"Project_Team_Lead": "Ana"},
		TeamMembers: []model.ResourceAssignment{
			{Name: "Ben"},
			{Name: "  "},
			{Name: "Ben"},
		},
	}
	assert.Equal(t, []string{"Ana (Lead)", "Ben"}, pmbok.TeamMembersList(p, "Fallback"))

	empty := model.Project{Attrs: model.Attributes{}}
	assert.Equal(t, []string{"Fallback (Lead)"}, pmbok.TeamMembersList(empty, "Fallback"))
}

package pmbok

import "github.com/cfolkers/caribou-portal/internal/model"

// PortfolioMetrics is the portfolio-level fold over per-project metrics.
type PortfolioMetrics struct {
	TotalProjects       int            `json:"total_projects"`
	ProcessDistribution map[string]int `json:"process_distribution"`
	RiskDistribution    map[string]int `json:"risk_distribution"`
	ScheduleHealth      map[string]int `json:"schedule_health"`
	OverdueCount        int            `json:"overdue_count"`
	AtRiskCount         int            `json:"at_risk_count"`
	OnTrackCount        int            `json:"on_track_count"`
}

// PortfolioMetrics folds phase, risk and schedule health across all
// projects. Projects with unknown schedules carry zero variance and land in
// the at-risk bucket.
func (e *Engine) PortfolioMetrics(projects []model.Project) PortfolioMetrics {
	if len(projects) == 0 {
		return PortfolioMetrics{}
	}

	m := PortfolioMetrics{
		TotalProjects:       len(projects),
		ProcessDistribution: make(map[string]int, len(ProcessGroupOrder)),
		RiskDistribution:    map[string]int{"Low": 0, "Medium": 0, "High": 0},
		ScheduleHealth:      map[string]int{"green": 0, "yellow": 0, "red": 0},
	}
	for _, group := range ProcessGroupOrder {
		m.ProcessDistribution[group] = 0
	}

	for _, p := range projects {
		m.ProcessDistribution[e.Phase(p)]++
		m.RiskDistribution[e.RiskLevel(p).Level]++

		perf := e.SchedulePerformance(p)
		m.ScheduleHealth[perf.Health]++

		if perf.VarianceDays < 0 {
			m.OverdueCount++
		} else if perf.VarianceDays <= atRiskWindowDays {
			m.AtRiskCount++
		}
	}

	m.OnTrackCount = m.TotalProjects - m.OverdueCount - m.AtRiskCount
	return m
}

// CategorySummary is the count and membership of one status category.
type CategorySummary struct {
	Category StatusCategory  `json:"category"`
	Count    int             `json:"count"`
	Projects []model.Project `json:"projects"`
}

// StatusCategorySummary groups projects by the category of their effective
// status, in category display order.
func StatusCategorySummary(projects []model.Project, overrides model.OverrideMap) []CategorySummary {
	byKey := make(map[string][]model.Project)
	for _, p := range projects {
		key := Categorize(overrides.EffectiveStatus(p))
		byKey[key] = append(byKey[key], p)
	}

	summary := make([]CategorySummary, 0, len(StatusCategories))
	for _, cat := range StatusCategories {
		summary = append(summary, CategorySummary{
			Category: cat,
			Count:    len(byKey[cat.Key]),
			Projects: byKey[cat.Key],
		})
	}
	return summary
}

// ProjectsInCategory filters projects whose effective status falls in the
// given category.
func ProjectsInCategory(projects []model.Project, overrides model.OverrideMap, key string) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if Categorize(overrides.EffectiveStatus(p)) == key {
			out = append(out, p)
		}
	}
	return out
}

package portfolio

import (
	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/service/engagement"
	"github.com/cfolkers/caribou-portal/internal/service/override"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
)

// DueDateView is the bucketed due-date display for one project.
type DueDateView struct {
	DaysUntilDue *int   `json:"days_until_due"`
	Label        string `json:"label"`
	Color        string `json:"color"`
}

// ProjectView is the full per-project dashboard payload.
type ProjectView struct {
	Project         model.Project             `json:"project"`
	EffectiveStatus string                    `json:"effective_status"`
	Category        string                    `json:"category"`
	StatusColor     string                    `json:"status_color"`
	Phase           string                    `json:"phase"`
	PhaseName       string                    `json:"phase_name"`
	Schedule        pmbok.SchedulePerformance `json:"schedule"`
	Risk            pmbok.Risk                `json:"risk"`
	DueDate         DueDateView               `json:"due_date"`
	TeamMembers     []string                  `json:"team_members"`
	Stakeholders    pmbok.StakeholderAnalysis `json:"stakeholders"`
	DateRequested   string                    `json:"date_requested"`
	DateRequired    string                    `json:"date_required"`
	Notes           string                    `json:"notes,omitempty"`
	ActionsBulleted string                    `json:"coordinator_actions,omitempty"`
	Override        *model.StatusOverride     `json:"override,omitempty"`
}

// ProjectView computes every per-project metric for display.
func (s *Service) ProjectView(snap Snapshot, p model.Project) ProjectView {
	phase := s.engine.Phase(p)

	days, known := s.engine.DaysUntilDue(p)
	label, color := pmbok.DueDateStatus(days, known)
	due := DueDateView{Label: label, Color: color}
	if known {
		due.DaysUntilDue = &days
	}

	effective := snap.Overrides.EffectiveStatus(p)

	view := ProjectView{
		Project:         p,
		EffectiveStatus: effective,
		Category:        pmbok.Categorize(effective),
		StatusColor:     pmbok.StatusColor(effective),
		Phase:           phase,
		PhaseName:       pmbok.ProcessGroups[phase],
		Schedule:        s.engine.SchedulePerformance(p),
		Risk:            s.engine.RiskLevel(p),
		DueDate:         due,
		TeamMembers:     pmbok.TeamMembersList(p, s.operator),
		Stakeholders:    pmbok.AnalyzeStakeholders(p, s.operator),
		DateRequested:   model.FormatDate(p.DateRequested),
		DateRequired:    model.FormatDate(p.DateRequired),
	}

	if o, ok := snap.Overrides[p.ID]; ok {
		view.Notes = o.Notes
		view.ActionsBulleted = override.FormatActionsAsBullets(o.CoordinatorActions)
		view.Override = &o
	}
	return view
}

// DashboardView is the aggregated portfolio payload.
type DashboardView struct {
	Metrics      pmbok.PortfolioMetrics         `json:"metrics"`
	Categories   []pmbok.CategorySummary        `json:"categories"`
	TopPeople    []*engagement.PersonEngagement `json:"top_people"`
	TopClients   []*engagement.ClientEngagement `json:"top_clients"`
	Workload     map[string]int                 `json:"workload_distribution"`
	Roles        map[string]int                 `json:"role_distribution"`
	TotalPeople  int                            `json:"total_people"`
	TotalClients int                            `json:"total_clients"`
}

// Dashboard folds the snapshot into portfolio metrics, category summaries
// and the engagement leaderboards.
func (s *Service) Dashboard(snap Snapshot) DashboardView {
	result := s.engagement.Analyze(snap.Projects, flattenResources(snap.Projects))
	clients := engagement.AnalyzeClients(snap.Projects)

	return DashboardView{
		Metrics:      s.engine.PortfolioMetrics(snap.Projects),
		Categories:   pmbok.StatusCategorySummary(snap.Projects, snap.Overrides),
		TopPeople:    engagement.TopEngagedPeople(result.Summary, topN),
		TopClients:   engagement.TopClients(clients.Summary, topN),
		Workload:     engagement.WorkloadDistribution(result.Summary),
		Roles:        engagement.RoleDistribution(result.Summary),
		TotalPeople:  result.TotalPeople,
		TotalClients: clients.TotalClients,
	}
}

// Engagement rebuilds the full engagement analysis from the snapshot.
func (s *Service) Engagement(snap Snapshot) engagement.Result {
	return s.engagement.Analyze(snap.Projects, flattenResources(snap.Projects))
}

// ClientEngagement rebuilds the client analysis from the snapshot.
func (s *Service) ClientEngagement(snap Snapshot) engagement.ClientResult {
	return engagement.AnalyzeClients(snap.Projects)
}

// SortedByDueDate returns the snapshot's projects nearest-due first.
func (s *Service) SortedByDueDate(snap Snapshot) []model.Project {
	return s.engine.SortByDueDate(snap.Projects)
}

// flattenResources recovers the explicit assignment rows joined onto the
// snapshot's projects.
func flattenResources(projects []model.Project) []model.ResourceAssignment {
	var resources []model.ResourceAssignment
	for _, p := range projects {
		resources = append(resources, p.TeamMembers...)
	}
	return resources
}

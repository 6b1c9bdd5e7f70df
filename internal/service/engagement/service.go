// Package engagement joins project records with resource assignments and
// derives who is working on what: per-person engagement records, workload
// and role distributions, and top-N rankings for people and clients.
package engagement

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/model"
)

// Querier is the slice of the feature-service client this package needs.
type Querier interface {
	QueryLayer(ctx context.Context, serviceURL, where string, maxRecords int) ([]model.Attributes, error)
	QueryIn(ctx context.Context, serviceURL, field string, values []string, extraWhere string, maxRecords int) []model.Attributes
}

// coordinatorFallbackFields is the ordered list of project fields scanned
// for an implicit coordinator when no explicit assignment exists. Client
// contact fields are deliberately excluded.
var coordinatorFallbackFields = []string{
	"Project_Manager", "Coordinator", "Project_Lead", "Lead_Scientist",
}

const (
	maxProjectRecords  = 2000
	maxResourceRecords = 1000
)

type Service struct {
	client       Querier
	projectsURL  string
	resourcesURL string
	prefix       string
	keyword      string
	logger       *zap.Logger
}

func NewService(client Querier, projectsURL, resourcesURL, prefix, keyword string, logger *zap.Logger) *Service {
	return &Service{
		client:       client,
		projectsURL:  projectsURL,
		resourcesURL: resourcesURL,
		prefix:       prefix,
		keyword:      keyword,
		logger:       logger,
	}
}

// MatchesProgram reports whether a project name falls under the program:
// prefix match or keyword containment, both case-insensitive.
func (s *Service) MatchesProgram(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, strings.ToLower(s.prefix)) ||
		strings.Contains(lower, strings.ToLower(s.keyword))
}

// FetchProjects queries all projects, current and completed, and filters
// them down to the program by name. Upstream failures are logged and
// surfaced as an empty list.
func (s *Service) FetchProjects(ctx context.Context) []model.Project {
	rows, err := s.client.QueryLayer(ctx, s.projectsURL, "1=1", maxProjectRecords)
	if err != nil {
		s.logger.Error("failed to query projects table", zap.Error(err))
		return nil
	}

	var projects []model.Project
	for _, row := range rows {
		p := model.ProjectFromAttributes(row)
		if s.MatchesProgram(p.Name) {
			projects = append(projects, p)
		}
	}

	s.logger.Info("fetched program projects",
		zap.Int("total", len(rows)),
		zap.Int("matched", len(projects)),
	)
	return projects
}

// FetchResources queries assigned resource rows for the given projects,
// linked by project ID in batches. Projects without an ID are skipped.
func (s *Service) FetchResources(ctx context.Context, projects []model.Project) []model.ResourceAssignment {
	var ids []string
	for _, p := range projects {
		if p.ID == "" {
			s.logger.Warn("project has no Project_ID, skipping from join",
				zap.String("name", p.Name))
			continue
		}
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		s.logger.Warn("no project IDs available for resource lookup")
		return nil
	}

	extraWhere := fmt.Sprintf("Resource_Status = '%s'", model.ResourceStatusAssigned)
	rows := s.client.QueryIn(ctx, s.resourcesURL, "Resource_Project_ID", ids, extraWhere, maxResourceRecords)

	resources := make([]model.ResourceAssignment, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, model.ResourceFromAttributes(row))
	}

	s.logger.Info("fetched resource assignments",
		zap.Int("projects", len(ids)),
		zap.Int("resources", len(resources)),
	)
	return resources
}

// Analyze builds the per-person engagement summary. Explicit assignments are
// credited first; projects left without any explicit assignment fall back to
// the first populated coordinator field on the project record, tagged with
// the synthetic default-coordinator role. A person is credited at most once
// per project; holding several roles on the same project unions the roles.
func (s *Service) Analyze(projects []model.Project, resources []model.ResourceAssignment) Result {
	byID := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		if p.ID != "" {
			byID[p.ID] = p
		}
	}

	summary := make(map[string]*PersonEngagement)
	withResources := make(map[string]bool)

	for _, r := range resources {
		if r.Name == "" || r.ProjectID == "" {
			continue
		}
		project, ok := byID[r.ProjectID]
		if !ok {
			// assignment points at a project outside the fetched set
			continue
		}
		withResources[r.ProjectID] = true
		s.credit(summary, r.Name, project, r.Role)
	}

	for _, p := range projects {
		if p.ID == "" || withResources[p.ID] {
			continue
		}
		coordinator := p.Attrs.FirstString(coordinatorFallbackFields...)
		if coordinator == "" {
			continue
		}
		s.credit(summary, coordinator, p, model.RoleCoordinatorDefault)
	}

	return Result{
		Summary:       summary,
		TotalProjects: len(projects),
		TotalPeople:   len(summary),
	}
}

func (s *Service) credit(summary map[string]*PersonEngagement, person string, p model.Project, role string) {
	entry, ok := summary[person]
	if !ok {
		entry = &PersonEngagement{
			Name:            person,
			ProjectStatuses: make(map[string]int),
		}
		summary[person] = entry
	}

	if !entry.HasRole(role) {
		entry.Roles = append(entry.Roles, role)
	}

	// at most one credit per person per project, whatever the role count
	for _, existing := range entry.Projects {
		if existing.ProjectID == p.ID {
			return
		}
	}

	status := p.Status
	if status == "" {
		status = "Unknown"
	}
	name := p.Name
	if name == "" {
		name = "Unknown Project"
	}

	entry.TotalProjects++
	entry.Projects = append(entry.Projects, ProjectCredit{
		ProjectID: p.ID,
		Name:      name,
		Number:    p.Number,
		Status:    status,
		Role:      role,
	})
	entry.ProjectStatuses[status]++
}

// Run fetches and analyzes in one pass: the full join pipeline.
func (s *Service) Run(ctx context.Context) Result {
	projects := s.FetchProjects(ctx)
	if len(projects) == 0 {
		return Result{Summary: map[string]*PersonEngagement{}}
	}
	resources := s.FetchResources(ctx, projects)
	return s.Analyze(projects, resources)
}

// Person looks up one person's engagement record by name,
// case-insensitively.
func Person(summary map[string]*PersonEngagement, name string) (*PersonEngagement, bool) {
	if entry, ok := summary[name]; ok {
		return entry, true
	}
	lower := strings.ToLower(name)
	for _, entry := range summary {
		if strings.ToLower(entry.Name) == lower {
			return entry, true
		}
	}
	return nil, false
}

// WorkloadDistribution buckets people by how many projects they carry.
func WorkloadDistribution(summary map[string]*PersonEngagement) map[string]int {
	dist := make(map[string]int)
	for _, person := range summary {
		var band string
		switch {
		case person.TotalProjects <= 1:
			band = "1 project"
		case person.TotalProjects == 2:
			band = "2 projects"
		case person.TotalProjects == 3:
			band = "3 projects"
		case person.TotalProjects == 4:
			band = "4 projects"
		default:
			band = "5+ projects"
		}
		dist[band]++
	}
	return dist
}

// RoleDistribution classifies each person by the kinds of roles they hold:
// coordinator-type only, other only, or both.
func RoleDistribution(summary map[string]*PersonEngagement) map[string]int {
	dist := map[string]int{"Coordinator": 0, "Other": 0, "Both": 0}
	for _, person := range summary {
		var coordinator, other bool
		for _, role := range person.Roles {
			if model.IsCoordinatorRole(role) {
				coordinator = true
			} else {
				other = true
			}
		}
		switch {
		case coordinator && other:
			dist["Both"]++
		case coordinator:
			dist["Coordinator"]++
		default:
			dist["Other"]++
		}
	}
	return dist
}

// TopEngagedPeople ranks people by project count descending, ties broken by
// name ascending so rankings are stable across runs.
func TopEngagedPeople(summary map[string]*PersonEngagement, limit int) []*PersonEngagement {
	people := make([]*PersonEngagement, 0, len(summary))
	for _, person := range summary {
		people = append(people, person)
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].TotalProjects != people[j].TotalProjects {
			return people[i].TotalProjects > people[j].TotalProjects
		}
		return people[i].Name < people[j].Name
	})
	if limit > 0 && len(people) > limit {
		people = people[:limit]
	}
	return people
}

// AnalyzeClients summarizes how many program projects each client has
// submitted. Projects without a client name are skipped.
func AnalyzeClients(projects []model.Project) ClientResult {
	summary := make(map[string]*ClientEngagement)

	for _, p := range projects {
		if p.ClientName == "" {
			continue
		}
		entry, ok := summary[p.ClientName]
		if !ok {
			entry = &ClientEngagement{
				Name:            p.ClientName,
				ProjectStatuses: make(map[string]int),
			}
			summary[p.ClientName] = entry
		}

		status := p.Status
		if status == "" {
			status = "Unknown"
		}
		number := p.Number
		if number == "" {
			number = "N/A"
		}

		entry.TotalProjects++
		entry.Projects = append(entry.Projects, ClientProject{
			Name:      p.Name,
			Number:    number,
			Status:    status,
			ProjectID: p.ID,
		})
		entry.ProjectStatuses[status]++
	}

	return ClientResult{
		Summary:       summary,
		TotalProjects: len(projects),
		TotalClients:  len(summary),
	}
}

// TopClients ranks clients by submitted project count descending, ties
// broken by name ascending.
func TopClients(summary map[string]*ClientEngagement, limit int) []*ClientEngagement {
	clients := make([]*ClientEngagement, 0, len(summary))
	for _, client := range summary {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].TotalProjects != clients[j].TotalProjects {
			return clients[i].TotalProjects > clients[j].TotalProjects
		}
		return clients[i].Name < clients[j].Name
	})
	if limit > 0 && len(clients) > limit {
		clients = clients[:limit]
	}
	return clients
}

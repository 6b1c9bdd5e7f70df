package engagement

// ProjectCredit is one project attributed to a person, with the role they
// hold on it.
type ProjectCredit struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Number    string `json:"number,omitempty"`
	Status    string `json:"status"`
	Role      string `json:"role"`
}

// PersonEngagement is the rebuilt-per-run engagement record for one person.
type PersonEngagement struct {
	Name            string          `json:"name"`
	TotalProjects   int             `json:"total_projects"`
	Projects        []ProjectCredit `json:"projects"`
	Roles           []string        `json:"roles"`
	ProjectStatuses map[string]int  `json:"project_statuses"`
}

// HasRole reports whether the person holds role on any project.
func (p *PersonEngagement) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Result is the full engagement analysis for one run.
type Result struct {
	Summary       map[string]*PersonEngagement `json:"engagement_summary"`
	TotalProjects int                          `json:"total_projects"`
	TotalPeople   int                          `json:"total_people"`
}

// ClientProject is one project listed under a client.
type ClientProject struct {
	Name      string `json:"name"`
	Number    string `json:"number"`
	Status    string `json:"status"`
	ProjectID string `json:"project_id"`
}

// ClientEngagement is the per-client submission summary.
type ClientEngagement struct {
	Name            string          `json:"name"`
	TotalProjects   int             `json:"total_projects"`
	Projects        []ClientProject `json:"projects"`
	ProjectStatuses map[string]int  `json:"project_statuses"`
}

// ClientResult is the client-side engagement analysis for one run.
type ClientResult struct {
	Summary       map[string]*ClientEngagement `json:"client_summary"`
	TotalProjects int                          `json:"total_projects"`
	TotalClients  int                          `json:"total_clients"`
}

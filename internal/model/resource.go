package model

// Resource assignment status and role values used by the joiner.
const (
	ResourceStatusAssigned = "Assigned"

	RoleCoordinator = "Coordinator"
	// RoleCoordinatorDefault marks engagement credit inferred from project
	// metadata rather than an explicit assignment row.
	RoleCoordinatorDefault = "Coordinator (default)"
)

// ResourceAssignment links a person to a project. The project linkage is a
// plain foreign key and is not guaranteed to resolve against the fetched
// project set.
type ResourceAssignment struct {
	ID        string `json:"resource_id,omitempty"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Team      string `json:"team,omitempty"`
}

// ResourceFromAttributes decodes one resource-table row.
func ResourceFromAttributes(a Attributes) ResourceAssignment {
	// Snapshot rows round-trip through our own JSON tags, hence the
	// lowercase fallbacks after the upstream field names.
	r := ResourceAssignment{
		Name:   a.FirstString("Resource_Name", "name"),
		Role:   a.FirstString("Resource_Type", "role"),
		Status: a.FirstString("Resource_Status", "status"),
		Team:   a.FirstString("Resource_Team", "team"),
	}
	if v, ok := a.First("Resource_ID", "OBJECTID", "GlobalID", "resource_id"); ok {
		r.ID = Stringify(v)
	}
	if v, ok := a.First("Resource_Project_ID", "project_id"); ok {
		r.ProjectID = Stringify(v)
	}
	if r.Role == "" {
		r.Role = "Unknown"
	}
	return r
}

// IsCoordinatorRole reports whether role counts as coordinator-type in the
// role distribution. The fallback tag counts the same as a genuine
// coordinator assignment.
func IsCoordinatorRole(role string) bool {
	return role == RoleCoordinator || role == RoleCoordinatorDefault
}

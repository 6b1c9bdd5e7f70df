package pmbok

import (
	"strings"

	"github.com/cfolkers/caribou-portal/internal/model"
)

// internalEmailDomain marks client contacts as internal stakeholders.
const internalEmailDomain = "gov.bc.ca"

// Stakeholder is one party with an interest in a project.
type Stakeholder struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Influence string `json:"influence"`
	Interest  string `json:"interest"`
}

// StakeholderAnalysis splits a project's stakeholders by importance and by
// internal/external affiliation.
type StakeholderAnalysis struct {
	Primary   []Stakeholder `json:"primary"`
	Secondary []Stakeholder `json:"secondary"`
	Internal  []Stakeholder `json:"internal"`
	External  []Stakeholder `json:"external"`
}

// AnalyzeStakeholders derives the stakeholder register for one project.
// coordinatorName is the operating project manager.
func AnalyzeStakeholders(p model.Project, coordinatorName string) StakeholderAnalysis {
	var analysis StakeholderAnalysis

	if p.ClientName != "" {
		analysis.Primary = append(analysis.Primary, Stakeholder{
			Name:      p.ClientName,
			Role:      "Project Sponsor/Client",
			Influence: "High",
			Interest:  "High",
		})
	}

	analysis.Primary = append(analysis.Primary, Stakeholder{
		Name:      coordinatorName,
		Role:      "Project Manager/Coordinator",
		Influence: "High",
		Interest:  "High",
	})

	for _, m := range p.TeamMembers {
		name := m.Name
		if name == "" {
			name = "Unknown"
		}
		analysis.Primary = append(analysis.Primary, Stakeholder{
			Name:      name,
			Role:      "Team Member",
			Influence: "Medium",
			Interest:  "High",
		})
	}

	if p.Ministry != "" {
		analysis.Secondary = append(analysis.Secondary, Stakeholder{
			Name:      p.Ministry,
			Role:      "Ministry/Department",
			Influence: "Medium",
			Interest:  "Medium",
		})
	}

	internalClient := strings.Contains(p.ClientEmail, internalEmailDomain)
	for _, group := range [][]Stakeholder{analysis.Primary, analysis.Secondary} {
		for _, s := range group {
			if internalClient || strings.Contains(s.Role, "Ministry") {
				analysis.Internal = append(analysis.Internal, s)
			} else {
				analysis.External = append(analysis.External, s)
			}
		}
	}

	return analysis
}

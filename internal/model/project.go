package model

import (
	"strconv"
	"time"
)

// Project is one project record as fetched from the projects table. Records
// are re-fetched on every refresh and never written back upstream; the only
// locally owned state is the status-override layer.
type Project struct {
	ID            string  `json:"project_id"`
	Name          string  `json:"name"`
	Number        string  `json:"number"`
	Status        string  `json:"status"`
	DateRequested int64   `json:"date_requested"` // epoch ms, 0 when unset
	DateRequired  int64   `json:"date_required"`  // epoch ms, 0 when unset
	ClientName    string  `json:"client_name,omitempty"`
	ClientEmail   string  `json:"client_email,omitempty"`
	Ministry      string  `json:"ministry,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	Description   string  `json:"description,omitempty"`
	Deliverables  string  `json:"deliverables,omitempty"`
	Hours         float64 `json:"hours,omitempty"`

	// DueDateRaw keeps the required-date field exactly as received, since it
	// may be epoch milliseconds or one of several string date formats.
	DueDateRaw any `json:"-"`

	// TeamMembers holds the explicit resource assignments joined onto this
	// project. Empty is valid and triggers the coordinator fallback.
	TeamMembers []ResourceAssignment `json:"team_members,omitempty"`

	// Attrs keeps the full attribute row for fields without a struct home
	// (coordinator fallback fields, geospatial attributes).
	Attrs Attributes `json:"-"`
}

// ProjectFromAttributes decodes one attribute row into a Project.
func ProjectFromAttributes(a Attributes) Project {
	p := Project{
		Name:         a.FirstString("Project_Name"),
		Number:       a.FirstString("Project_Number"),
		Status:       a.FirstString("Project_Status"),
		ClientName:   a.FirstString("Client_Name"),
		ClientEmail:  a.FirstString("Client_Email"),
		Ministry:     a.FirstString("Ministry"),
		Priority:     a.FirstString("Priority_Level"),
		Description:  a.FirstString("Description"),
		Deliverables: a.FirstString("Deliverables"),
		Attrs:        a,
	}
	if v, ok := a.First("Project_ID"); ok {
		p.ID = Stringify(v)
	}
	if n, ok := a.FirstNumber("Date_Requested"); ok {
		p.DateRequested = int64(n)
	}
	if n, ok := a.FirstNumber("Date_Required"); ok {
		p.DateRequired = int64(n)
	}
	if v, ok := a.First("Date_Required", "Required_Date"); ok {
		p.DueDateRaw = v
	}
	if n, ok := a.FirstNumber("Hours"); ok {
		p.Hours = n
	}
	if members, ok := a["Team_Members"].([]any); ok {
		for _, m := range members {
			if row, ok := m.(map[string]any); ok {
				p.TeamMembers = append(p.TeamMembers, ResourceFromAttributes(Attributes(row)))
			}
		}
	}
	return p
}

// RequestedTime converts the requested timestamp; ok is false when unset.
func (p Project) RequestedTime() (time.Time, bool) {
	if p.DateRequested == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(p.DateRequested), true
}

// RequiredTime converts the required timestamp; ok is false when unset.
func (p Project) RequiredTime() (time.Time, bool) {
	if p.DateRequired == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(p.DateRequired), true
}

// Stringify renders an attribute value as a string identifier. Numeric IDs
// lose any ".0" the JSON decoding added.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case nil:
		return ""
	default:
		return ""
	}
}

// FormatDate renders an epoch-millisecond timestamp as YYYY-MM-DD, or "N/A"
// when unset.
func FormatDate(epochMS int64) string {
	if epochMS == 0 {
		return "N/A"
	}
	return time.UnixMilli(epochMS).Format("2006-01-02")
}

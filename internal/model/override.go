package model

import "time"

// StatusOverride is one locally persisted correction to a project's status
// and notes. It takes precedence over the upstream status for display.
// Entries are merged field-group-wise: a notes edit does not touch the
// status fields and vice versa.
type StatusOverride struct {
	Status         string `json:"status,omitempty"`
	UpdatedBy      string `json:"updated_by,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"` // ISO 8601
	OriginalStatus string `json:"original_status,omitempty"`

	Notes          string `json:"notes,omitempty"`
	NotesUpdatedBy string `json:"notes_updated_by,omitempty"`
	NotesUpdatedAt string `json:"notes_updated_at,omitempty"`

	CoordinatorActions string `json:"coordinator_actions,omitempty"`
	ActionsUpdatedBy   string `json:"coordinator_actions_updated_by,omitempty"`
	ActionsUpdatedAt   string `json:"coordinator_actions_updated_at,omitempty"`
}

// OverrideMap is the persisted override blob: project ID to override entry,
// written wholesale on every mutation.
type OverrideMap map[string]StatusOverride

// HasStatus reports whether the entry carries a status correction. Entries
// created by a notes- or actions-only edit do not shadow the source status.
func (o StatusOverride) HasStatus() bool {
	return o.Status != ""
}

// EffectiveStatus resolves a project's display status: the override status
// when an entry with a status correction exists, else the source value, else
// "Unknown".
func (m OverrideMap) EffectiveStatus(p Project) string {
	if o, ok := m[p.ID]; ok && o.HasStatus() {
		return o.Status
	}
	if p.Status == "" {
		return "Unknown"
	}
	return p.Status
}

// Timestamp renders t the way override entries store edit times.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

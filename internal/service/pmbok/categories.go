package pmbok

import "strings"

// StatusCategory groups a set of literal upstream status strings under one
// dashboard bucket.
type StatusCategory struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Statuses    []string `json:"statuses"`
}

// StatusCategories is the fixed category table in evaluation and display
// order. No status string appears in more than one category.
var StatusCategories = []StatusCategory{
	{
		Key:         "not_assigned",
		Name:        "Not Assigned",
		Description: "Projects without assigned team members or lead",
		Color:       "red",
		Icon:        "person_off",
		Statuses:    []string{"Not Assigned", "Unassigned", "Pending Assignment"},
	},
	{
		Key:         "not_started",
		Name:        "Not Started",
		Description: "Projects assigned but work not yet begun",
		Color:       "gray",
		Icon:        "schedule",
		Statuses:    []string{"Assigned", "New", "Queued"},
	},
	{
		Key:         "in_progress",
		Name:        "In Progress",
		Description: "Active project work underway",
		Color:       "blue",
		Icon:        "play_arrow",
		Statuses:    []string{"In Progress", "Active", "Working"},
	},
	{
		Key:         "awaiting_client",
		Name:        "Awaiting Client Feedback",
		Description: "Waiting for client input or approval",
		Color:       "yellow",
		Icon:        "feedback",
		Statuses:    []string{"Awaiting Client Feedback", "Client Review", "Pending Client"},
	},
	{
		Key:         "awaiting_resources",
		Name:        "Awaiting Resources",
		Description: "Blocked waiting for team members or tools",
		Color:       "orange",
		Icon:        "people",
		Statuses:    []string{"Awaiting Resources", "Resource Blocked", "Team Unavailable"},
	},
	{
		Key:         "on_hold",
		Name:        "On Hold",
		Description: "Temporarily paused projects",
		Color:       "red",
		Icon:        "pause",
		Statuses:    []string{"On Hold", "Paused", "Suspended"},
	},
	{
		Key:         "quality_review",
		Name:        "Quality Review",
		Description: "Under quality assurance or technical review",
		Color:       "purple",
		Icon:        "fact_check",
		Statuses:    []string{"Quality Review", "QA Review", "Technical Review"},
	},
	{
		Key:         "completed",
		Name:        "Completed",
		Description: "Successfully completed projects",
		Color:       "green",
		Icon:        "check_circle",
		Statuses:    []string{"Completed", "Done", "Finished", "Delivered"},
	},
	{
		Key:         "cancelled",
		Name:        "Cancelled",
		Description: "Cancelled or terminated projects",
		Color:       "gray",
		Icon:        "cancel",
		Statuses:    []string{"Cancelled", "Terminated", "Discontinued"},
	},
}

// categoryHints maps keyword substrings to a category when no literal status
// matched. Hint groups are evaluated in this order; "review" deliberately
// lands in awaiting_client ahead of the quality bucket.
var categoryHints = []struct {
	key   string
	words []string
}{
	{"in_progress", []string{"progress", "active", "working"}},
	{"awaiting_client", []string{"client", "feedback", "review"}},
	{"on_hold", []string{"hold", "pause", "suspend"}},
	{"completed", []string{"complete", "done", "finish"}},
	{"cancelled", []string{"cancel", "terminate"}},
}

// Categorize returns the category key owning a status string: literal table
// match first, then case-insensitive keyword hints, defaulting to
// not_started.
func Categorize(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "not_started"
	}

	for _, cat := range StatusCategories {
		for _, s := range cat.Statuses {
			if status == s {
				return cat.Key
			}
		}
	}

	lower := strings.ToLower(status)
	for _, hint := range categoryHints {
		for _, word := range hint.words {
			if strings.Contains(lower, word) {
				return hint.key
			}
		}
	}

	return "not_started"
}

// CategoryByKey looks up a category definition.
func CategoryByKey(key string) (StatusCategory, bool) {
	for _, cat := range StatusCategories {
		if cat.Key == key {
			return cat, true
		}
	}
	return StatusCategory{}, false
}

var colorClasses = map[string]string{
	"slate":  "bg-slate-500",
	"gray":   "bg-gray-500",
	"blue":   "bg-blue-500",
	"yellow": "bg-yellow-500",
	"orange": "bg-orange-500",
	"red":    "bg-red-500",
	"purple": "bg-purple-500",
	"green":  "bg-green-500",
}

// StatusColor returns the display color class for a status string, via its
// owning category.
func StatusColor(status string) string {
	cat, ok := CategoryByKey(Categorize(status))
	if !ok {
		return colorClasses["gray"]
	}
	if class, ok := colorClasses[cat.Color]; ok {
		return class
	}
	return colorClasses["gray"]
}

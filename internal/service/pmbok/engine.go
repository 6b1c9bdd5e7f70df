// Package pmbok computes per-project health metrics aligned with the PMI
// process groups: lifecycle phase, schedule performance, risk scoring and
// due-date status, plus the portfolio-level aggregation over them.
//
// Every function here is deterministic and side-effect-free given the
// project record and override snapshot; nothing caches between calls.
package pmbok

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cfolkers/caribou-portal/internal/model"
)

// Process group keys in display order.
var ProcessGroupOrder = []string{"initiating", "planning", "executing", "monitoring", "closing"}

// ProcessGroups maps phase keys to display names.
var ProcessGroups = map[string]string{
	"initiating": "Initiating",
	"planning":   "Planning",
	"executing":  "Executing",
	"monitoring": "Monitoring & Controlling",
	"closing":    "Closing",
}

// recentAssignmentWindow is how long after the request date an "Assigned"
// project still counts as initiating.
const recentAssignmentWindow = 14

// atRiskWindowDays is the remaining-duration threshold below which a project
// is at risk rather than on track.
const atRiskWindowDays = 7

type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock fixes the engine's notion of now. All date arithmetic
// is relative to the clock, which keeps metric output deterministic.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Phase classifies a project into a process group from its authoritative
// status and request date.
func (e *Engine) Phase(p model.Project) string {
	switch strings.ToLower(p.Status) {
	case "assigned":
		if requested, ok := p.RequestedTime(); ok {
			if daysBetween(requested, e.now()) <= recentAssignmentWindow {
				return "initiating"
			}
			return "executing"
		}
		return "planning"
	case "in progress":
		return "executing"
	case "completed":
		return "closing"
	case "on hold":
		return "monitoring"
	default:
		return "initiating"
	}
}

// SchedulePerformance describes how a project tracks against its requested
// and required dates.
type SchedulePerformance struct {
	Status            string  `json:"status"`
	VarianceDays      int     `json:"variance_days"`
	Health            string  `json:"health"`
	SPI               float64 `json:"spi"`
	HasSPI            bool    `json:"has_spi"`
	TotalDuration     int     `json:"total_duration,omitempty"`
	ElapsedDuration   int     `json:"elapsed_duration,omitempty"`
	RemainingDuration int     `json:"remaining_duration,omitempty"`
}

// SchedulePerformance computes the schedule performance index and health
// band. Missing either timestamp yields the gray Unknown sentinel with zero
// variance.
func (e *Engine) SchedulePerformance(p model.Project) SchedulePerformance {
	start, okStart := p.RequestedTime()
	end, okEnd := p.RequiredTime()
	if !okStart || !okEnd {
		return SchedulePerformance{
			Status: "Unknown",
			Health: "gray",
		}
	}

	now := e.now()
	total := daysBetween(start, end)
	elapsed := daysBetween(start, now)
	remaining := daysBetween(now, end)

	spi := 1.0
	if total > 0 {
		planned := float64(elapsed) / float64(total)
		// Actual progress is assumed linear and capped at completion.
		actual := math.Min(planned, 1.0)
		if planned > 0 {
			spi = actual / planned
		}
	}
	spi = math.Round(spi*100) / 100

	var health, status string
	switch {
	case remaining < 0:
		health, status = "red", "Overdue"
	case remaining <= atRiskWindowDays:
		health, status = "yellow", "At Risk"
	case spi < 0.9:
		health, status = "yellow", "Behind Schedule"
	default:
		health, status = "green", "On Track"
	}

	return SchedulePerformance{
		Status:            status,
		VarianceDays:      remaining,
		Health:            health,
		SPI:               spi,
		HasSPI:            true,
		TotalDuration:     total,
		ElapsedDuration:   elapsed,
		RemainingDuration: remaining,
	}
}

// Risk is the additive risk assessment of one project.
type Risk struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

// RiskLevel scores schedule, priority and team-size risk factors.
func (e *Engine) RiskLevel(p model.Project) Risk {
	perf := e.SchedulePerformance(p)

	score := 0
	switch perf.Health {
	case "red":
		score += 3
	case "yellow":
		score += 2
	}

	switch strings.ToLower(p.Priority) {
	case "urgent":
		score += 2
	case "high":
		score += 1
	}

	teamSize := len(p.TeamMembers) + 1 // +1 for the coordinator
	if teamSize == 1 {
		score++ // single point of failure
	} else if teamSize > 4 {
		score++ // coordination overhead
	}

	switch {
	case score >= 5:
		return Risk{Level: "High", Color: "red", Score: score}
	case score >= 3:
		return Risk{Level: "Medium", Color: "yellow", Score: score}
	default:
		return Risk{Level: "Low", Color: "green", Score: score}
	}
}

// dueDateFormats are tried in order; the first successful parse wins.
var dueDateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// DaysUntilDue computes whole days until the project's due date. The raw
// field may be epoch milliseconds or a string in one of several formats;
// absent or unparseable values return ok=false.
func (e *Engine) DaysUntilDue(p model.Project) (int, bool) {
	raw := p.DueDateRaw
	if raw == nil {
		return 0, false
	}

	var due time.Time
	switch v := raw.(type) {
	case float64:
		due = time.UnixMilli(int64(v))
	case int64:
		due = time.UnixMilli(v)
	case string:
		if v == "" || v == "None" {
			return 0, false
		}
		parsed := false
		for _, format := range dueDateFormats {
			if t, err := time.Parse(format, v); err == nil {
				due = t
				parsed = true
				break
			}
		}
		if !parsed {
			return 0, false
		}
	default:
		return 0, false
	}

	return daysBetween(e.now(), due), true
}

// DueDateStatus buckets a days-until-due value into a display label and
// color.
func DueDateStatus(days int, known bool) (string, string) {
	switch {
	case !known:
		return "No due date", "gray"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days), "red"
	case days == 0:
		return "Due today", "red"
	case days <= 7:
		return fmt.Sprintf("%d days left", days), "yellow"
	case days <= 30:
		return fmt.Sprintf("%d days left", days), "blue"
	default:
		return fmt.Sprintf("%d days left", days), "green"
	}
}

// SortByDueDate orders projects nearest or most overdue first; undated
// projects sort last. The input slice is not modified.
func (e *Engine) SortByDueDate(projects []model.Project) []model.Project {
	sorted := make([]model.Project, len(projects))
	copy(sorted, projects)

	key := func(p model.Project) int {
		days, ok := e.DaysUntilDue(p)
		if !ok {
			return math.MaxInt
		}
		return days
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})
	return sorted
}

// TeamMembersList renders the display list of people on a project: the lead
// first, then explicit assignments, deduplicated preserving order. A project
// with nobody at all falls back to defaultLead.
func TeamMembersList(p model.Project, defaultLead string) []string {
	var members []string

	lead := p.Attrs.FirstString("Project_Team_Lead", "Team_Member")
	if lead == "" {
		lead = defaultLead
	}
	if lead != "" && lead != "N/A" {
		members = append(members, lead+" (Lead)")
	}

	for _, m := range p.TeamMembers {
		if name := strings.TrimSpace(m.Name); name != "" {
			members = append(members, name)
		}
	}

	seen := make(map[string]bool, len(members))
	unique := members[:0]
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}

	if len(unique) == 0 && defaultLead != "" {
		return []string{defaultLead + " (Lead)"}
	}
	return unique
}

// daysBetween returns whole days from a to b, negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

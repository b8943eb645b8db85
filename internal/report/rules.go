package report

import "strings"

// Rules holds the organization-specific conventions the pipeline needs:
// the known agent roster, the metric catalog, layout-artifact names to drop,
// and the data-quality thresholds. These are spreadsheet conventions of one
// concierge team, so they are configuration rather than hard logic.
type Rules struct {
	// KnownAgents is the roster of concierge agents whose names appear as
	// weekly sheet columns.
	KnownAgents []string

	// MetricCatalog is the fixed set of weekly metric kinds. A row's first
	// cell must contain one of these (case-insensitive) to count as a
	// metric row.
	MetricCatalog []string

	// DropNames are literal member names that are layout artifacts, not
	// real interactions ("advisor" header fragments in the daily log).
	DropNames []string

	// BusinessHoursStart/End bound the warning window for after-hours calls:
	// a call at [Start, End) o'clock looks like a business-hours call.
	BusinessHoursStart int
	BusinessHoursEnd   int

	// PhoneTimeMaxHours caps plausible weekly phone time (hours in a week).
	PhoneTimeMaxHours float64

	// MembersMax caps plausible "Members attended to" counts.
	MembersMax int
}

// Metric kinds tracked on the weekly agent-performance sheet.
const (
	MetricMembersAttended = "Members attended to"
	MetricPhoneTime       = "Phone Time"
	MetricIncompleteTasks = "Incomplete Tasks"
	MetricFollowUps       = "Follow Ups"
	MetricEmailsSent      = "Emails Sent"
	MetricTicketsCreated  = "Tickets Created"
	MetricTicketsResolved = "Tickets Resolved"
	MetricEscalations     = "Escalations"
)

// DefaultRules returns the conventions of the current concierge team.
func DefaultRules() Rules {
	return Rules{
		KnownAgents: []string{"Ace", "Adam", "Angee", "Bella", "Marco", "Tiana"},
		MetricCatalog: []string{
			MetricMembersAttended,
			MetricPhoneTime,
			MetricIncompleteTasks,
			MetricFollowUps,
			MetricEmailsSent,
			MetricTicketsCreated,
			MetricTicketsResolved,
			MetricEscalations,
		},
		DropNames:          []string{"advisor"},
		BusinessHoursStart: 8,
		BusinessHoursEnd:   20,
		PhoneTimeMaxHours:  168,
		MembersMax:         1000,
	}
}

// placeholders are cell values meaning "agent reported nothing".
var placeholders = map[string]bool{
	"":    true,
	"n/a": true,
	"na":  true,
	"?":   true,
	"-":   true,
}

// IsPlaceholder reports whether a cell value carries no reported value.
func IsPlaceholder(val string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(val))]
}

// MatchMetric returns the catalog metric whose name the cell contains,
// case-insensitively, or "" when the cell names no known metric.
func (r Rules) MatchMetric(cell string) string {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return ""
	}
	for _, m := range r.MetricCatalog {
		if strings.Contains(c, strings.ToLower(m)) {
			return m
		}
	}
	return ""
}

// IsKnownAgent reports whether name matches the agent roster, ignoring case
// and surrounding whitespace.
func (r Rules) IsKnownAgent(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, a := range r.KnownAgents {
		if n == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// CanonicalAgent returns the roster spelling for a recognized agent name,
// or "" when the name is not on the roster.
func (r Rules) CanonicalAgent(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, a := range r.KnownAgents {
		if n == strings.ToLower(a) {
			return a
		}
	}
	return ""
}

// isDropName reports whether a cleaned member name is a known layout artifact.
func (r Rules) isDropName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, d := range r.DropNames {
		if n == strings.ToLower(d) {
			return true
		}
	}
	return false
}

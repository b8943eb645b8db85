package report

import (
	"regexp"
	"strings"

	"github.com/ignite/concierge-reports/internal/domain"
)

// Emitted pairs a typed record with the 1-based sheet row it came from, so
// validation failures can be reported against the source row.
type Emitted struct {
	Row    int
	Record any
}

// Transform runs the family's transformer over the sheet. Transformers never
// fail: rows that fit no known shape are dropped at the row level, and the
// only way a record becomes wrong rather than absent is by failing its
// validator afterwards.
func Transform(family domain.ReportFamily, sheet *RawSheet, rules Rules) []Emitted {
	switch family {
	case domain.FamilyWeekly:
		return TransformWeekly(sheet, rules)
	case domain.FamilyDaily:
		return TransformDaily(sheet, rules)
	case domain.FamilyAfterHours:
		return TransformAfterHours(sheet)
	default:
		return nil
	}
}

// weeklyState is the accumulator threaded through the weekly fold: the
// current week section plus the agent-column layout discovered so far.
type weeklyState struct {
	rangeRaw  string
	weekStart string
	weekEnd   string
	agentCols map[int]string // column index -> roster agent name
	lastAgent int            // highest agent column index
}

// TransformWeekly walks the weekly agent-performance sheet top to bottom.
// A date-range row opens a new week section; a row naming known agents fixes
// the column layout; each metric row fans out into one record per agent
// column holding a non-placeholder value. A non-empty cell past the agent
// columns is the notes column and attaches to every record from that row.
func TransformWeekly(sheet *RawSheet, rules Rules) []Emitted {
	var out []Emitted
	st := weeklyState{lastAgent: -1}

	for i, row := range sheet.Rows {
		rowNum := i + 1
		switch rules.ClassifyWeeklyRow(row) {
		case KindSectionMarker:
			start, end, _ := ParseWeeklyDateRange(row.Cell(0))
			st.rangeRaw = row.Cell(0)
			st.weekStart = start
			st.weekEnd = end

		case KindData:
			if st.rangeRaw == "" {
				continue // data before any section marker: leading title rows
			}
			if st.agentCols == nil {
				continue // no agent layout discovered yet
			}
			metric := rules.MatchMetric(row.Cell(0))
			notes := ""
			for c := st.lastAgent + 1; c < len(row); c++ {
				if v := row.Cell(c); v != "" {
					notes = v
					break
				}
			}
			for col := 1; col <= st.lastAgent; col++ {
				agent, ok := st.agentCols[col]
				if !ok {
					continue
				}
				val := row.Cell(col)
				if IsPlaceholder(val) {
					continue
				}
				out = append(out, Emitted{Row: rowNum, Record: domain.WeeklyMetric{
					WeekStart:    st.weekStart,
					WeekEnd:      st.weekEnd,
					RawDateRange: st.rangeRaw,
					AgentName:    agent,
					MetricType:   metric,
					MetricValue:  val,
					Notes:        notes,
				}})
			}

		default:
			// A noise row naming known agents fixes the column layout.
			if cols, last, ok := agentColumns(row, rules); ok {
				st.agentCols = cols
				st.lastAgent = last
			}
		}
	}
	return out
}

// agentColumns scans a row for roster names and returns the column layout.
// Requires at least one match beyond column 0; the leading cell is the metric
// label position, never an agent.
func agentColumns(row Row, rules Rules) (map[int]string, int, bool) {
	cols := make(map[int]string)
	last := -1
	for c := 1; c < len(row); c++ {
		if a := rules.CanonicalAgent(row.Cell(c)); a != "" {
			cols[c] = a
			last = c
		}
	}
	if len(cols) == 0 {
		return nil, -1, false
	}
	return cols, last, true
}

// TransformDaily walks the daily member-interaction log. A bare-date row
// opens a new day section; each data row under it is one interaction. The
// "no calls" sentinel becomes a single NO CALLS record; literal artifact
// names from the layout are dropped entirely.
func TransformDaily(sheet *RawSheet, rules Rules) []Emitted {
	var out []Emitted
	currentDate := ""

	for i, row := range sheet.Rows {
		rowNum := i + 1
		switch ClassifyDailyRow(row) {
		case KindSectionMarker:
			currentDate, _ = ParseDailyDate(row.Cell(0))

		case KindData:
			if currentDate == "" {
				continue
			}
			name := CleanMemberName(row.Cell(0))
			if rules.isDropName(name) {
				continue
			}
			if IsNoCallsRow(name) {
				out = append(out, Emitted{Row: rowNum, Record: domain.DailyInteraction{
					InteractionDate: currentDate,
					MemberName:      domain.NoCallsSentinel,
				}})
				continue
			}
			out = append(out, Emitted{Row: rowNum, Record: domain.DailyInteraction{
				InteractionDate:  currentDate,
				MemberName:       name,
				IssueDescription: row.Cell(1),
				Notes:            row.Cell(2),
			}})
		}
	}
	return out
}

// TransformAfterHours walks the after-hours call log. No section concept:
// every row with a non-empty first cell yields one record built from exactly
// three logical columns; extra raw columns are ignored.
func TransformAfterHours(sheet *RawSheet) []Emitted {
	var out []Emitted
	for i, row := range sheet.Rows {
		if ClassifyAfterHoursRow(row) != KindData {
			continue
		}
		raw := row.Cell(0)
		ts, _ := ParseAfterHoursTimestamp(raw)
		name, phone := SplitMemberPhone(row.Cell(1))
		out = append(out, Emitted{Row: i + 1, Record: domain.AfterHoursCall{
			RawTimestamp: raw,
			Timestamp:    ts,
			MemberName:   name,
			PhoneNumber:  phone,
			Notes:        row.Cell(2),
		}})
	}
	return out
}

var (
	extensionRe     = regexp.MustCompile(`(?i)\s+(?:x|ext\.?)\s*\d+$`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)$`)
	crmSuffixRe     = regexp.MustCompile(`(?i)\s*[-–]\s*(?:salesforce|hubspot|zendesk|crm)$`)
)

// CleanMemberName strips the artifacts the concierge CRM export appends to
// member names: phone extensions ("John Smith x102"), trailing
// parentheticals, and CRM system-name suffixes.
func CleanMemberName(raw string) string {
	n := strings.TrimSpace(raw)
	n = extensionRe.ReplaceAllString(n, "")
	n = parentheticalRe.ReplaceAllString(n, "")
	n = crmSuffixRe.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

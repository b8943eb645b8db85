package report

import (
	"sort"
	"strings"

	"github.com/ignite/concierge-reports/internal/domain"
)

// Per-family summarizers. Pure aggregates over the accepted record set only;
// rejected records never influence a summary.

// Summarize dispatches to the family's summarizer over accepted records.
func Summarize(family domain.ReportFamily, records []any, rules Rules) any {
	switch family {
	case domain.FamilyWeekly:
		var recs []domain.WeeklyMetric
		for _, r := range records {
			if m, ok := r.(domain.WeeklyMetric); ok {
				recs = append(recs, m)
			}
		}
		return SummarizeWeekly(recs)
	case domain.FamilyDaily:
		var recs []domain.DailyInteraction
		for _, r := range records {
			if d, ok := r.(domain.DailyInteraction); ok {
				recs = append(recs, d)
			}
		}
		return SummarizeDaily(recs)
	case domain.FamilyAfterHours:
		var recs []domain.AfterHoursCall
		for _, r := range records {
			if c, ok := r.(domain.AfterHoursCall); ok {
				recs = append(recs, c)
			}
		}
		return SummarizeAfterHours(recs, rules)
	default:
		return nil
	}
}

// SummarizeWeekly totals the bounded metric kinds, collects the distinct
// agents and week ranges, and derives a week-over-week trend for members
// attended to.
func SummarizeWeekly(recs []domain.WeeklyMetric) domain.WeeklySummary {
	s := domain.WeeklySummary{
		RecordsByMetric: make(map[string]int),
		MembersTrend:    "insufficient_data",
	}
	agents := make(map[string]bool)
	ranges := make(map[string]bool)
	membersByWeek := make(map[string]int)
	var weekOrder []string

	for _, r := range recs {
		s.RecordsByMetric[r.MetricType]++
		agents[r.AgentName] = true
		if !ranges[r.RawDateRange] {
			ranges[r.RawDateRange] = true
			weekOrder = append(weekOrder, r.RawDateRange)
		}

		switch r.MetricType {
		case MetricMembersAttended:
			if n, ok := parseCount(r.MetricValue); ok {
				s.TotalMembers += n
				membersByWeek[r.RawDateRange] += n
			}
		case MetricPhoneTime:
			s.TotalPhoneHours += ParsePhoneTimeHours(r.MetricValue)
		case MetricIncompleteTasks:
			inc, next := ParseIncompleteTasksPair(r.MetricValue)
			s.TotalIncomplete += inc
			s.TotalPushedNextWeek += next
		}
	}

	s.DistinctAgents = sortedKeys(agents)
	s.WeekRanges = weekOrder

	// Trend over the sheet's week order: compare the last two weeks that
	// reported member counts.
	if len(weekOrder) >= 2 {
		var counts []int
		for _, w := range weekOrder {
			if n, ok := membersByWeek[w]; ok && n > 0 {
				counts = append(counts, n)
			}
		}
		if len(counts) >= 2 {
			prev, last := counts[len(counts)-2], counts[len(counts)-1]
			switch {
			case last > prev:
				s.MembersTrend = "up"
			case last < prev:
				s.MembersTrend = "down"
			default:
				s.MembersTrend = "flat"
			}
		}
	}
	return s
}

// SummarizeDaily counts interactions and no-call days, collects distinct
// members and dates, and flags duplicate interactions (same date, member,
// and issue after case folding).
func SummarizeDaily(recs []domain.DailyInteraction) domain.DailySummary {
	s := domain.DailySummary{}
	members := make(map[string]bool)
	dates := make(map[string]bool)
	var dateOrder []string
	seen := make(map[string]int)

	for _, r := range recs {
		if !dates[r.InteractionDate] {
			dates[r.InteractionDate] = true
			dateOrder = append(dateOrder, r.InteractionDate)
		}
		if r.IsNoCalls() {
			s.NoCallDays++
			continue
		}
		s.Interactions++
		members[r.MemberName] = true

		key := r.InteractionDate + "|" + strings.ToLower(r.MemberName) + "|" + strings.ToLower(strings.TrimSpace(r.IssueDescription))
		seen[key]++
		if seen[key] > 1 {
			s.Duplicates++
		}
	}

	s.DistinctMembers = sortedKeys(members)
	s.DatesCovered = dateOrder
	return s
}

// SummarizeAfterHours counts calls, distinct members, the peak hour, and how
// many accepted calls fell inside the business-hours warning window.
func SummarizeAfterHours(recs []domain.AfterHoursCall, rules Rules) domain.AfterHoursSummary {
	s := domain.AfterHoursSummary{PeakHour: -1}
	members := make(map[string]bool)
	byHour := make(map[int]int)

	for _, r := range recs {
		s.Calls++
		members[r.MemberName] = true
		if r.Timestamp.IsZero() {
			continue
		}
		h := r.Timestamp.Hour()
		byHour[h]++
		if h >= rules.BusinessHoursStart && h < rules.BusinessHoursEnd {
			s.BusinessHoursCalls++
		}
	}

	peak := -1
	best := 0
	for h := 0; h < 24; h++ {
		if byHour[h] > best {
			best = byHour[h]
			peak = h
		}
	}
	s.PeakHour = peak
	s.DistinctMembers = sortedKeys(members)
	return s
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package report

import (
	"testing"

	"github.com/ignite/concierge-reports/internal/domain"
)

func weeklyRec(rangeRaw, agent, metric, value string) domain.WeeklyMetric {
	start, end, _ := ParseWeeklyDateRange(rangeRaw)
	return domain.WeeklyMetric{
		WeekStart: start, WeekEnd: end, RawDateRange: rangeRaw,
		AgentName: agent, MetricType: metric, MetricValue: value,
	}
}

func TestSummarizeWeekly_Totals(t *testing.T) {
	recs := []domain.WeeklyMetric{
		weeklyRec("12.01.24-12.07.24", "Ace", MetricMembersAttended, "87"),
		weeklyRec("12.01.24-12.07.24", "Angee", MetricMembersAttended, "102"),
		weeklyRec("12.01.24-12.07.24", "Ace", MetricPhoneTime, "2:30 hours"),
		weeklyRec("12.01.24-12.07.24", "Ace", MetricIncompleteTasks, "3 | 2"),
	}

	s := SummarizeWeekly(recs)
	if s.TotalMembers != 189 {
		t.Errorf("TotalMembers = %d, want 189", s.TotalMembers)
	}
	if s.TotalPhoneHours != 2.5 {
		t.Errorf("TotalPhoneHours = %v, want 2.5", s.TotalPhoneHours)
	}
	if s.TotalIncomplete != 3 || s.TotalPushedNextWeek != 2 {
		t.Errorf("incomplete pair = (%d, %d), want (3, 2)", s.TotalIncomplete, s.TotalPushedNextWeek)
	}
	if len(s.DistinctAgents) != 2 {
		t.Errorf("DistinctAgents = %v", s.DistinctAgents)
	}
	if s.MembersTrend != "insufficient_data" {
		t.Errorf("one week of data should give insufficient_data, got %s", s.MembersTrend)
	}
}

func TestSummarizeWeekly_Trend(t *testing.T) {
	recs := []domain.WeeklyMetric{
		weeklyRec("12.01.24-12.07.24", "Ace", MetricMembersAttended, "80"),
		weeklyRec("12.08.24-12.14.24", "Ace", MetricMembersAttended, "95"),
	}
	if s := SummarizeWeekly(recs); s.MembersTrend != "up" {
		t.Errorf("trend = %s, want up", s.MembersTrend)
	}

	recs[1].MetricValue = "60"
	if s := SummarizeWeekly(recs); s.MembersTrend != "down" {
		t.Errorf("trend = %s, want down", s.MembersTrend)
	}

	recs[1].MetricValue = "80"
	if s := SummarizeWeekly(recs); s.MembersTrend != "flat" {
		t.Errorf("trend = %s, want flat", s.MembersTrend)
	}
}

func TestSummarizeDaily(t *testing.T) {
	recs := []domain.DailyInteraction{
		{InteractionDate: "12.01.24", MemberName: domain.NoCallsSentinel},
		{InteractionDate: "12.02.24", MemberName: "John Smith", IssueDescription: "Billing question"},
		{InteractionDate: "12.02.24", MemberName: "John Smith", IssueDescription: "billing question"},
		{InteractionDate: "12.03.24", MemberName: "Jane Doe", IssueDescription: "Reservation"},
	}

	s := SummarizeDaily(recs)
	if s.Interactions != 3 {
		t.Errorf("Interactions = %d, want 3", s.Interactions)
	}
	if s.NoCallDays != 1 {
		t.Errorf("NoCallDays = %d, want 1", s.NoCallDays)
	}
	if s.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1 (case-folded same date+member+issue)", s.Duplicates)
	}
	if len(s.DistinctMembers) != 2 {
		t.Errorf("DistinctMembers = %v", s.DistinctMembers)
	}
	if len(s.DatesCovered) != 3 {
		t.Errorf("DatesCovered = %v", s.DatesCovered)
	}
}

func TestSummarizeAfterHours(t *testing.T) {
	mk := func(raw, member string) domain.AfterHoursCall {
		ts, _ := ParseAfterHoursTimestamp(raw)
		return domain.AfterHoursCall{RawTimestamp: raw, Timestamp: ts, MemberName: member}
	}
	recs := []domain.AfterHoursCall{
		mk("Dec 5, 2024, 11:45:00 pm", "Jane Doe"),
		mk("Dec 6, 2024, 11:10:00 pm", "John Smith"),
		mk("Dec 7, 2024, 2:00:00 pm", "Jane Doe"),
	}

	s := SummarizeAfterHours(recs, DefaultRules())
	if s.Calls != 3 {
		t.Errorf("Calls = %d, want 3", s.Calls)
	}
	if s.PeakHour != 23 {
		t.Errorf("PeakHour = %d, want 23", s.PeakHour)
	}
	if s.BusinessHoursCalls != 1 {
		t.Errorf("BusinessHoursCalls = %d, want 1", s.BusinessHoursCalls)
	}
	if len(s.DistinctMembers) != 2 {
		t.Errorf("DistinctMembers = %v", s.DistinctMembers)
	}

	empty := SummarizeAfterHours(nil, DefaultRules())
	if empty.PeakHour != -1 {
		t.Errorf("PeakHour with no calls = %d, want -1", empty.PeakHour)
	}
}

package report

import (
	"testing"

	"github.com/ignite/concierge-reports/internal/domain"
)

func sheetOf(rows ...[]string) *RawSheet {
	s := &RawSheet{}
	for _, r := range rows {
		s.Rows = append(s.Rows, Row(r))
	}
	return s
}

func TestTransformWeekly_FansOutPerAgent(t *testing.T) {
	rules := DefaultRules()
	sheet := sheetOf(
		[]string{"Metric", "Ace", "Adam", "Angee"},
		[]string{"12.01.24-12.07.24"},
		[]string{"Members attended to", "87", "N/A", "102"},
	)

	out := TransformWeekly(sheet, rules)
	if len(out) != 2 {
		t.Fatalf("expected 2 records (Adam dropped as N/A), got %d", len(out))
	}

	first := out[0].Record.(domain.WeeklyMetric)
	second := out[1].Record.(domain.WeeklyMetric)
	if first.AgentName != "Ace" || first.MetricValue != "87" {
		t.Errorf("first record = %s/%s, want Ace/87", first.AgentName, first.MetricValue)
	}
	if second.AgentName != "Angee" || second.MetricValue != "102" {
		t.Errorf("second record = %s/%s, want Angee/102", second.AgentName, second.MetricValue)
	}
	for _, e := range out {
		rec := e.Record.(domain.WeeklyMetric)
		if rec.WeekStart != "12.01.24" || rec.WeekEnd != "12.07.24" {
			t.Errorf("section fields not populated: %+v", rec)
		}
		if rec.MetricType != MetricMembersAttended {
			t.Errorf("metric type = %q", rec.MetricType)
		}
	}
}

func TestTransformWeekly_NotesColumnAttachesToAllRecords(t *testing.T) {
	sheet := sheetOf(
		[]string{"", "Ace", "Adam"},
		[]string{"12.01.24-12.07.24"},
		[]string{"Phone Time", "2:30 hours", "1:15 hours", "phones were down Tuesday"},
	)

	out := TransformWeekly(sheet, DefaultRules())
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	for _, e := range out {
		rec := e.Record.(domain.WeeklyMetric)
		if rec.Notes != "phones were down Tuesday" {
			t.Errorf("notes = %q, want attached note", rec.Notes)
		}
	}
}

func TestTransformWeekly_DataBeforeSectionDropped(t *testing.T) {
	sheet := sheetOf(
		[]string{"", "Ace", "Adam"},
		[]string{"Members attended to", "87", "90"}, // no date range yet
		[]string{"12.01.24-12.07.24"},
		[]string{"Members attended to", "87", "90"},
	)

	out := TransformWeekly(sheet, DefaultRules())
	if len(out) != 2 {
		t.Fatalf("expected only the post-marker row to emit, got %d records", len(out))
	}
}

func TestTransformWeekly_SectionCarriesForward(t *testing.T) {
	sheet := sheetOf(
		[]string{"", "Ace"},
		[]string{"12.01.24-12.07.24"},
		[]string{"Members attended to", "87"},
		[]string{"Phone Time", "2:30 hours"},
		[]string{"12.08.24-12.14.24"},
		[]string{"Members attended to", "90"},
	)

	out := TransformWeekly(sheet, DefaultRules())
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	last := out[2].Record.(domain.WeeklyMetric)
	if last.WeekStart != "12.08.24" {
		t.Errorf("section did not advance: %+v", last)
	}
}

func TestTransformDaily_Scenario(t *testing.T) {
	sheet := sheetOf(
		[]string{"12.1.24"},
		[]string{"NO CALLS", "", ""},
		[]string{"12.2.24"},
		[]string{"John Smith x102", "Billing question", ""},
	)

	out := TransformDaily(sheet, DefaultRules())
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}

	noCalls := out[0].Record.(domain.DailyInteraction)
	if !noCalls.IsNoCalls() || noCalls.InteractionDate != "12.01.24" {
		t.Errorf("first record = %+v, want NO CALLS on 12.01.24", noCalls)
	}
	if noCalls.IssueDescription != "" {
		t.Errorf("NO CALLS record must carry no issue description, got %q", noCalls.IssueDescription)
	}

	call := out[1].Record.(domain.DailyInteraction)
	if call.MemberName != "John Smith" {
		t.Errorf("member name = %q, want extension stripped", call.MemberName)
	}
	if call.InteractionDate != "12.02.24" || call.IssueDescription != "Billing question" {
		t.Errorf("second record = %+v", call)
	}
}

func TestTransformDaily_AdvisorRowDropped(t *testing.T) {
	sheet := sheetOf(
		[]string{"12.1.24"},
		[]string{"Advisor", "", ""},
		[]string{"Jane Doe", "Reservation change", ""},
	)

	out := TransformDaily(sheet, DefaultRules())
	if len(out) != 1 {
		t.Fatalf("expected advisor artifact dropped, got %d records", len(out))
	}
	if out[0].Record.(domain.DailyInteraction).MemberName != "Jane Doe" {
		t.Errorf("unexpected record: %+v", out[0].Record)
	}
}

func TestTransformAfterHours_ThreeLogicalColumns(t *testing.T) {
	sheet := sheetOf(
		[]string{"Dec 5, 2024, 11:45:00 pm", "Jane Doe (+15551234567)", "Follow-up needed", "extra", "ignored"},
	)

	out := TransformAfterHours(sheet)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	rec := out[0].Record.(domain.AfterHoursCall)
	if rec.MemberName != "Jane Doe" || rec.PhoneNumber != "15551234567" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Notes != "Follow-up needed" {
		t.Errorf("notes = %q", rec.Notes)
	}
	if rec.Timestamp.Hour() != 23 {
		t.Errorf("timestamp hour = %d, want 23", rec.Timestamp.Hour())
	}
}

func TestCleanMemberName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"John Smith x102", "John Smith"},
		{"John Smith ext 12", "John Smith"},
		{"Jane Doe (VIP)", "Jane Doe"},
		{"Jane Doe - Salesforce", "Jane Doe"},
		{"Jane Doe – HubSpot", "Jane Doe"},
		{"Plain Name", "Plain Name"},
	}
	for _, tt := range tests {
		if got := CleanMemberName(tt.in); got != tt.want {
			t.Errorf("CleanMemberName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassification_ExhaustiveAndExclusive(t *testing.T) {
	rules := DefaultRules()
	rows := []Row{
		{"12.01.24-12.07.24"},
		{"Members attended to", "87"},
		{"Concierge Weekly Report"},
		{""},
	}
	for _, row := range rows {
		kind := rules.ClassifyWeeklyRow(row)
		if kind != KindSectionMarker && kind != KindData && kind != KindNoise {
			t.Errorf("row %v classified as %v", row, kind)
		}
	}
	// A date-range row must never also classify as data.
	if rules.ClassifyWeeklyRow(Row{"12.01.24-12.07.24"}) != KindSectionMarker {
		t.Error("marker check must win over data check")
	}
}

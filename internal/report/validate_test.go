package report

import (
	"strings"
	"testing"

	"github.com/ignite/concierge-reports/internal/domain"
)

func TestValidateWeekly(t *testing.T) {
	rules := DefaultRules()
	base := domain.WeeklyMetric{
		WeekStart:    "12.01.24",
		WeekEnd:      "12.07.24",
		RawDateRange: "12.01.24-12.07.24",
		AgentName:    "Ace",
		MetricType:   MetricMembersAttended,
		MetricValue:  "87",
	}

	if v := ValidateWeekly(base, rules); !v.Valid {
		t.Errorf("expected valid, got errors %v", v.Errors)
	}

	missing := base
	missing.AgentName = ""
	if v := ValidateWeekly(missing, rules); v.Valid {
		t.Error("empty agent name must be rejected")
	}

	badRange := base
	badRange.RawDateRange = "Dec 1 - Dec 7"
	if v := ValidateWeekly(badRange, rules); v.Valid {
		t.Error("non-reparsing date range must be rejected")
	}

	tooMany := base
	tooMany.MetricValue = "1500"
	if v := ValidateWeekly(tooMany, rules); v.Valid {
		t.Error("member count above bound must be rejected")
	}

	phone := base
	phone.MetricType = MetricPhoneTime
	phone.MetricValue = "2:30 hours"
	if v := ValidateWeekly(phone, rules); !v.Valid {
		t.Errorf("plausible phone time rejected: %v", v.Errors)
	}

	phone.MetricValue = "200 hours"
	if v := ValidateWeekly(phone, rules); v.Valid {
		t.Error("200 hours in a week must be rejected")
	}
}

func TestValidateDaily(t *testing.T) {
	ok := domain.DailyInteraction{InteractionDate: "12.01.24", MemberName: "Jane Doe", IssueDescription: "Billing"}
	if v := ValidateDaily(ok); !v.Valid {
		t.Errorf("expected valid, got %v", v.Errors)
	}

	noCalls := domain.DailyInteraction{InteractionDate: "12.01.24", MemberName: domain.NoCallsSentinel}
	if v := ValidateDaily(noCalls); !v.Valid {
		t.Errorf("NO CALLS sentinel must be valid, got %v", v.Errors)
	}

	if v := ValidateDaily(domain.DailyInteraction{MemberName: "Jane"}); v.Valid {
		t.Error("missing date must be rejected")
	}
	if v := ValidateDaily(domain.DailyInteraction{InteractionDate: "first of December", MemberName: "Jane"}); v.Valid {
		t.Error("non-reparsing date must be rejected")
	}
}

func TestValidateAfterHours_BusinessHoursWarning(t *testing.T) {
	rules := DefaultRules()

	night := domain.AfterHoursCall{
		RawTimestamp: "Dec 5, 2024, 11:45:00 pm",
		MemberName:   "Jane Doe",
		PhoneNumber:  "15551234567",
	}
	v := ValidateAfterHours(night, rules)
	if !v.Valid || len(v.Warnings) != 0 {
		t.Errorf("23:45 call should be valid with no warnings, got %+v", v)
	}

	daytime := night
	daytime.RawTimestamp = "Dec 5, 2024, 2:00:00 pm"
	v = ValidateAfterHours(daytime, rules)
	if !v.Valid {
		t.Errorf("daytime call must still be accepted, got errors %v", v.Errors)
	}
	found := false
	for _, w := range v.Warnings {
		if strings.Contains(w, "business hours") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected business-hours warning, got %v", v.Warnings)
	}
}

func TestValidateAfterHours_PhoneDigits(t *testing.T) {
	rules := DefaultRules()

	short := domain.AfterHoursCall{
		RawTimestamp: "Dec 5, 2024, 11:45:00 pm",
		MemberName:   "Jane Doe",
		PhoneNumber:  "555-1234",
	}
	if v := ValidateAfterHours(short, rules); v.Valid {
		t.Error("phone with fewer than 10 digits must be rejected")
	}

	formatted := short
	formatted.PhoneNumber = "(555) 123-4567 x9"
	if v := ValidateAfterHours(formatted, rules); !v.Valid {
		t.Errorf("10+ digits after stripping must pass, got %v", v.Errors)
	}

	none := short
	none.PhoneNumber = ""
	if v := ValidateAfterHours(none, rules); !v.Valid {
		t.Errorf("absent phone is not an error, got %v", v.Errors)
	}
}

func TestValidateAfterHours_BadTimestamp(t *testing.T) {
	rec := domain.AfterHoursCall{RawTimestamp: "yesterday", MemberName: "Jane"}
	if v := ValidateAfterHours(rec, DefaultRules()); v.Valid {
		t.Error("non-reparsing timestamp must be rejected")
	}
}

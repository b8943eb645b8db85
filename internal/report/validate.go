package report

import (
	"fmt"

	"github.com/ignite/concierge-reports/internal/domain"
)

// Per-family validators. Each is a pure function over one record; no record's
// verdict ever depends on another record.

// Validate dispatches to the family's validator.
func Validate(family domain.ReportFamily, record any, rules Rules) domain.Verdict {
	switch rec := record.(type) {
	case domain.WeeklyMetric:
		return ValidateWeekly(rec, rules)
	case domain.DailyInteraction:
		return ValidateDaily(rec)
	case domain.AfterHoursCall:
		return ValidateAfterHours(rec, rules)
	default:
		return domain.Verdict{Errors: []string{fmt.Sprintf("unsupported record type %T for family %s", record, family)}}
	}
}

// ValidateWeekly checks one weekly metric record: all fields present, the
// date range re-parses, and the decoded value is inside sanity bounds for
// the bounded metric kinds.
func ValidateWeekly(rec domain.WeeklyMetric, rules Rules) domain.Verdict {
	var errs []string

	if rec.AgentName == "" {
		errs = append(errs, "agent name is required")
	}
	if rec.MetricType == "" {
		errs = append(errs, "metric type is required")
	}
	if rec.MetricValue == "" {
		errs = append(errs, "metric value is required")
	}
	if rec.RawDateRange == "" {
		errs = append(errs, "date range is required")
	} else if _, _, ok := ParseWeeklyDateRange(rec.RawDateRange); !ok {
		errs = append(errs, fmt.Sprintf("date range %q does not parse as MM.DD.YY-MM.DD.YY", rec.RawDateRange))
	}

	switch rec.MetricType {
	case MetricPhoneTime:
		hours := ParsePhoneTimeHours(rec.MetricValue)
		if hours < 0 || hours > rules.PhoneTimeMaxHours {
			errs = append(errs, fmt.Sprintf("phone time %.1f hours outside [0, %.0f]", hours, rules.PhoneTimeMaxHours))
		}
	case MetricMembersAttended:
		n, ok := parseCount(rec.MetricValue)
		if !ok || n < 0 || n > rules.MembersMax {
			errs = append(errs, fmt.Sprintf("members attended %q outside [0, %d]", rec.MetricValue, rules.MembersMax))
		}
	}

	return domain.Verdict{Valid: len(errs) == 0, Errors: errs}
}

// ValidateDaily checks one daily interaction: date and member name present,
// date in canonical form. The NO CALLS sentinel is a valid record.
func ValidateDaily(rec domain.DailyInteraction) domain.Verdict {
	var errs []string

	if rec.InteractionDate == "" {
		errs = append(errs, "interaction date is required")
	} else if _, ok := ParseDailyDate(rec.InteractionDate); !ok {
		errs = append(errs, fmt.Sprintf("interaction date %q does not parse", rec.InteractionDate))
	}
	if rec.MemberName == "" {
		errs = append(errs, "member name is required")
	}

	return domain.Verdict{Valid: len(errs) == 0, Errors: errs}
}

// ValidateAfterHours checks one after-hours call. A call that lands inside
// the business-hours window is a warning, not an error: override shifts and
// holiday coverage legitimately produce daytime entries.
func ValidateAfterHours(rec domain.AfterHoursCall, rules Rules) domain.Verdict {
	var errs, warns []string

	if rec.MemberName == "" {
		errs = append(errs, "member name is required")
	}
	if rec.RawTimestamp == "" {
		errs = append(errs, "timestamp is required")
	} else if ts, ok := ParseAfterHoursTimestamp(rec.RawTimestamp); !ok {
		errs = append(errs, fmt.Sprintf("timestamp %q does not parse", rec.RawTimestamp))
	} else {
		h := ts.Hour()
		if h >= rules.BusinessHoursStart && h < rules.BusinessHoursEnd {
			warns = append(warns, "appears to be during business hours")
		}
	}
	if rec.PhoneNumber != "" && len(StripNonDigits(rec.PhoneNumber)) < 10 {
		errs = append(errs, fmt.Sprintf("phone number %q has fewer than 10 digits", rec.PhoneNumber))
	}

	return domain.Verdict{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// parseCount decodes a plain integer count cell.
func parseCount(val string) (int, bool) {
	n := 0
	seen := false
	for _, r := range val {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	return n, seen
}

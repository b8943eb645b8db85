package report

import "github.com/ignite/concierge-reports/internal/domain"

// DetectFamily guesses which report family a sheet belongs to from its shape
// alone. Fingerprints run in a fixed order (Weekly, then AfterHours, then
// Daily) because a weekly sheet can superficially resemble a daily one
// (both lead with date-like cells); weekly's stronger multi-signal
// fingerprint must win that tie. Returns FamilyUnknown when nothing matches.
func DetectFamily(sheet *RawSheet, rules Rules) domain.ReportFamily {
	switch {
	case matchesWeekly(sheet, rules):
		return domain.FamilyWeekly
	case matchesAfterHours(sheet):
		return domain.FamilyAfterHours
	case matchesDaily(sheet):
		return domain.FamilyDaily
	default:
		return domain.FamilyUnknown
	}
}

// matchesWeekly requires all three weekly signals: a date-range cell, a known
// agent name in some column, and a metric-name leading cell.
func matchesWeekly(sheet *RawSheet, rules Rules) bool {
	hasRange, hasAgent, hasMetric := false, false, false
	for _, row := range sheet.Rows {
		for c := range row {
			cell := row.Cell(c)
			if !hasRange && IsDateRangeRow(cell) {
				hasRange = true
			}
			if !hasAgent && rules.IsKnownAgent(cell) {
				hasAgent = true
			}
		}
		if !hasMetric && rules.IsMetricRow(row.Cell(0)) {
			hasMetric = true
		}
		if hasRange && hasAgent && hasMetric {
			return true
		}
	}
	return false
}

// matchesAfterHours requires a strict after-hours timestamp cell and a
// phone-suffix cell somewhere in the sheet.
func matchesAfterHours(sheet *RawSheet) bool {
	hasTimestamp, hasPhone := false, false
	for _, row := range sheet.Rows {
		for c := range row {
			cell := row.Cell(c)
			if !hasTimestamp {
				if _, ok := ParseAfterHoursTimestamp(cell); ok {
					hasTimestamp = true
				}
			}
			if !hasPhone {
				if _, phone := SplitMemberPhone(cell); phone != "" {
					hasPhone = true
				}
			}
		}
		if hasTimestamp && hasPhone {
			return true
		}
	}
	return false
}

// matchesDaily requires a bare-date leading cell and the narrow column count
// of the daily log (2-4 columns).
func matchesDaily(sheet *RawSheet) bool {
	cols := sheet.Columns()
	if cols < 2 || cols > 4 {
		return false
	}
	for _, row := range sheet.Rows {
		if IsDailyDateRow(row.Cell(0)) {
			return true
		}
	}
	return false
}

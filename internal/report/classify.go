package report

import "strings"

// Row classifiers. Pure predicates over single rows; each transformer runs
// its marker check before its data check, so a row is never both.

// RowKind is what a classifier decided about one raw row.
type RowKind int

const (
	KindNoise RowKind = iota // blank rows, titles, anything unplaceable
	KindSectionMarker
	KindData
)

// IsDateRangeRow reports whether the cell is a weekly section marker
// (a strict MM.DD.YY-MM.DD.YY date range).
func IsDateRangeRow(cell string) bool {
	_, _, ok := ParseWeeklyDateRange(cell)
	return ok
}

// IsMetricRow reports whether the cell names one of the known weekly metric
// kinds, case-insensitively.
func (r Rules) IsMetricRow(cell string) bool {
	return r.MatchMetric(cell) != ""
}

// IsDailyDateRow reports whether the cell is a daily section marker: a bare
// date, deliberately distinct from the weekly *range* shape.
func IsDailyDateRow(cell string) bool {
	_, ok := ParseDailyDate(cell)
	return ok
}

// IsNoCallsRow reports whether a cleaned member-name cell is the "no calls
// that day" sentinel.
func IsNoCallsRow(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "no calls" || n == "no call"
}

// ClassifyWeeklyRow places a weekly-sheet row. Marker check runs first.
func (r Rules) ClassifyWeeklyRow(row Row) RowKind {
	switch {
	case IsDateRangeRow(row.Cell(0)):
		return KindSectionMarker
	case r.IsMetricRow(row.Cell(0)):
		return KindData
	default:
		return KindNoise
	}
}

// ClassifyDailyRow places a daily-log row. Marker check runs first.
func ClassifyDailyRow(row Row) RowKind {
	switch {
	case IsDailyDateRow(row.Cell(0)):
		return KindSectionMarker
	case row.Cell(0) != "":
		return KindData
	default:
		return KindNoise
	}
}

// ClassifyAfterHoursRow places an after-hours row. The log has no section
// concept: every row with a non-empty first cell is a candidate data row.
func ClassifyAfterHoursRow(row Row) RowKind {
	if row.Cell(0) != "" {
		return KindData
	}
	return KindNoise
}

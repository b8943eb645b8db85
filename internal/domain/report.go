package domain

import "time"

// ReportFamily enumerates the three structurally distinct spreadsheet shapes
// the concierge ingestion pipeline understands.
type ReportFamily string

const (
	FamilyWeekly     ReportFamily = "weekly"
	FamilyDaily      ReportFamily = "daily"
	FamilyAfterHours ReportFamily = "after_hours"
	FamilyUnknown    ReportFamily = "unknown"

	// FamilyAuto asks the orchestrator to run the format detector.
	FamilyAuto ReportFamily = "auto"
)

// ParseFamily maps a user-supplied family string to a ReportFamily.
// Unrecognized input yields FamilyUnknown, not an error.
func ParseFamily(s string) ReportFamily {
	switch ReportFamily(s) {
	case FamilyWeekly, FamilyDaily, FamilyAfterHours, FamilyAuto:
		return ReportFamily(s)
	default:
		return FamilyUnknown
	}
}

// WeeklyMetric is one agent's value for one metric kind in one week.
// A single metric row in the source sheet fans out into one WeeklyMetric
// per agent column that reported a value.
type WeeklyMetric struct {
	WeekStart    string `json:"week_start" db:"week_start"`         // MM.DD.YY
	WeekEnd      string `json:"week_end" db:"week_end"`             // MM.DD.YY
	RawDateRange string `json:"raw_date_range" db:"raw_date_range"` // as seen in the sheet
	AgentName    string `json:"agent_name" db:"agent_name"`
	MetricType   string `json:"metric_type" db:"metric_type"`
	MetricValue  string `json:"metric_value" db:"metric_value"`
	Notes        string `json:"notes,omitempty" db:"notes"`
}

// NoCallsSentinel is the member name recorded for a daily log row stating
// that no interactions happened that day.
const NoCallsSentinel = "NO CALLS"

// DailyInteraction is one member interaction from a daily concierge log.
type DailyInteraction struct {
	InteractionDate  string `json:"interaction_date" db:"interaction_date"` // MM.DD.YY
	MemberName       string `json:"member_name" db:"member_name"`
	IssueDescription string `json:"issue_description" db:"issue_description"`
	Notes            string `json:"notes,omitempty" db:"notes"`
}

// IsNoCalls reports whether this record is the "no interactions that day"
// sentinel rather than a real interaction.
func (d DailyInteraction) IsNoCalls() bool { return d.MemberName == NoCallsSentinel }

// AfterHoursCall is one entry from the after-hours call log.
type AfterHoursCall struct {
	RawTimestamp string    `json:"raw_timestamp" db:"raw_timestamp"`
	Timestamp    time.Time `json:"timestamp" db:"called_at"`
	MemberName   string    `json:"member_name" db:"member_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"` // digits only
	Notes        string    `json:"notes,omitempty" db:"notes"`
}

// Verdict is the outcome of validating one typed record. Any error rejects
// the record; warnings accompany otherwise-valid records without blocking.
type Verdict struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// RowError is a per-row rejection attached to an upload batch.
type RowError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
	Record    any    `json:"record,omitempty"`
}

// RowWarning is a per-row non-blocking diagnostic attached to an upload batch.
type RowWarning struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
}

// BatchStatus tracks the orchestrator state machine for one ingestion call.
type BatchStatus string

const (
	BatchParsing      BatchStatus = "parsing"
	BatchTransforming BatchStatus = "transforming"
	BatchValidating   BatchStatus = "validating"
	BatchPersisting   BatchStatus = "persisting"
	BatchFinalized    BatchStatus = "finalized"
	BatchFailed       BatchStatus = "failed"
)

// UploadBatch is the full result of one ingestion call. It is immutable once
// the orchestrator returns it; each call produces a fresh batch id.
type UploadBatch struct {
	BatchID       string       `json:"batch_id" db:"batch_id"`
	Family        ReportFamily `json:"family" db:"family"`
	FileName      string       `json:"file_name" db:"file_name"`
	UploadedBy    string       `json:"uploaded_by,omitempty" db:"uploaded_by"`
	OrgID         string       `json:"org_id,omitempty" db:"org_id"`
	Status        BatchStatus  `json:"status" db:"status"`
	Success       bool         `json:"success" db:"success"`
	Message       string       `json:"message,omitempty" db:"message"`
	RowsProcessed int          `json:"rows_processed" db:"rows_processed"`
	RowsSucceeded int          `json:"rows_succeeded" db:"rows_succeeded"`
	RowsFailed    int          `json:"rows_failed" db:"rows_failed"`
	Errors        []RowError   `json:"errors,omitempty"`
	Warnings      []RowWarning `json:"warnings,omitempty"`
	Summary       any          `json:"summary,omitempty"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	CompletedAt   time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// DiagnosticSeverity grades persisted per-row diagnostics.
type DiagnosticSeverity string

const (
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityError   DiagnosticSeverity = "error"
)

// Diagnostic is one persisted per-row audit entry for a batch.
type Diagnostic struct {
	BatchID   string             `json:"batch_id" db:"batch_id"`
	Family    ReportFamily       `json:"family" db:"family"`
	RowNumber int                `json:"row_number" db:"row_number"`
	Severity  DiagnosticSeverity `json:"severity" db:"severity"`
	Message   string             `json:"message" db:"message"`
	RawRecord any                `json:"raw_record,omitempty"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// WeeklySummary aggregates accepted weekly metrics for one batch.
type WeeklySummary struct {
	TotalMembers        int            `json:"total_members"`
	TotalPhoneHours     float64        `json:"total_phone_hours"`
	TotalIncomplete     int            `json:"total_incomplete"`
	TotalPushedNextWeek int            `json:"total_pushed_next_week"`
	DistinctAgents      []string       `json:"distinct_agents"`
	WeekRanges          []string       `json:"week_ranges"`
	RecordsByMetric     map[string]int `json:"records_by_metric"`
	MembersTrend        string         `json:"members_trend"` // up, down, flat, insufficient_data
}

// DailySummary aggregates accepted daily interactions for one batch.
type DailySummary struct {
	Interactions    int      `json:"interactions"`
	NoCallDays      int      `json:"no_call_days"`
	DistinctMembers []string `json:"distinct_members"`
	DatesCovered    []string `json:"dates_covered"`
	Duplicates      int      `json:"duplicates"`
}

// AfterHoursSummary aggregates accepted after-hours calls for one batch.
type AfterHoursSummary struct {
	Calls              int      `json:"calls"`
	DistinctMembers    []string `json:"distinct_members"`
	PeakHour           int      `json:"peak_hour"` // 0-23, -1 when no calls
	BusinessHoursCalls int      `json:"business_hours_calls"`
}

// FamilyTemplate is the human-facing description of one report family,
// served to the dashboard for display only. The pipeline never reads these.
type FamilyTemplate struct {
	Family          ReportFamily `json:"family"`
	Label           string       `json:"label"`
	ExpectedColumns []string     `json:"expected_columns"`
	FilePattern     string       `json:"file_pattern"`
	Notes           string       `json:"notes,omitempty"`
}

// Package storage implements the Postgres-backed repository for ingested
// concierge reports. All writes for a batch are tagged with the batch id so
// concurrent batches never interfere.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ignite/concierge-reports/internal/domain"
	"github.com/ignite/concierge-reports/internal/service/ingest"
)

// Store is a Postgres implementation of ingest.Repository.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema applies idempotent schema setup. Failures beyond the first
// statement are non-fatal in managed environments where DDL is restricted;
// they are returned so the caller can decide.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS concierge_report_batches (
			batch_id UUID PRIMARY KEY,
			org_id TEXT NOT NULL DEFAULT '',
			family TEXT NOT NULL,
			file_name TEXT NOT NULL DEFAULT '',
			uploaded_by TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			success BOOLEAN NOT NULL DEFAULT FALSE,
			message TEXT NOT NULL DEFAULT '',
			rows_processed INTEGER NOT NULL DEFAULT 0,
			rows_succeeded INTEGER NOT NULL DEFAULT 0,
			rows_failed INTEGER NOT NULL DEFAULT 0,
			summary JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS concierge_report_diagnostics (
			id BIGSERIAL PRIMARY KEY,
			batch_id UUID NOT NULL,
			family TEXT NOT NULL,
			row_number INTEGER NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			raw_record JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS concierge_weekly_metrics (
			id BIGSERIAL PRIMARY KEY,
			batch_id UUID NOT NULL,
			week_start TEXT NOT NULL,
			week_end TEXT NOT NULL,
			raw_date_range TEXT NOT NULL,
			agent_name TEXT NOT NULL,
			metric_type TEXT NOT NULL,
			metric_value TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS concierge_daily_interactions (
			id BIGSERIAL PRIMARY KEY,
			batch_id UUID NOT NULL,
			interaction_date TEXT NOT NULL,
			member_name TEXT NOT NULL,
			issue_description TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS concierge_after_hours_calls (
			id BIGSERIAL PRIMARY KEY,
			batch_id UUID NOT NULL,
			raw_timestamp TEXT NOT NULL,
			called_at TIMESTAMPTZ,
			member_name TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_report_diag_batch ON concierge_report_diagnostics (batch_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertRecords bulk-inserts the accepted records for a batch inside one
// transaction, so the insert is atomic per call.
func (s *Store) InsertRecords(ctx context.Context, family domain.ReportFamily, batchID string, records []any) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback()

	switch family {
	case domain.FamilyWeekly:
		err = insertWeekly(ctx, tx, batchID, records)
	case domain.FamilyDaily:
		err = insertDaily(ctx, tx, batchID, records)
	case domain.FamilyAfterHours:
		err = insertAfterHours(ctx, tx, batchID, records)
	default:
		err = fmt.Errorf("unsupported family %q", family)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert batch: %w", err)
	}
	return nil
}

func insertWeekly(ctx context.Context, tx *sql.Tx, batchID string, records []any) error {
	const cols = 8
	var sb strings.Builder
	sb.WriteString(`INSERT INTO concierge_weekly_metrics
		(batch_id, week_start, week_end, raw_date_range, agent_name, metric_type, metric_value, notes) VALUES `)

	args := make([]interface{}, 0, len(records)*cols)
	for i, r := range records {
		rec, ok := r.(domain.WeeklyMetric)
		if !ok {
			return fmt.Errorf("weekly insert: unexpected record type %T", r)
		}
		writePlaceholders(&sb, i, cols)
		args = append(args, batchID, rec.WeekStart, rec.WeekEnd, rec.RawDateRange,
			rec.AgentName, rec.MetricType, rec.MetricValue, rec.Notes)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

func insertDaily(ctx context.Context, tx *sql.Tx, batchID string, records []any) error {
	const cols = 5
	var sb strings.Builder
	sb.WriteString(`INSERT INTO concierge_daily_interactions
		(batch_id, interaction_date, member_name, issue_description, notes) VALUES `)

	args := make([]interface{}, 0, len(records)*cols)
	for i, r := range records {
		rec, ok := r.(domain.DailyInteraction)
		if !ok {
			return fmt.Errorf("daily insert: unexpected record type %T", r)
		}
		writePlaceholders(&sb, i, cols)
		args = append(args, batchID, rec.InteractionDate, rec.MemberName, rec.IssueDescription, rec.Notes)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

func insertAfterHours(ctx context.Context, tx *sql.Tx, batchID string, records []any) error {
	const cols = 6
	var sb strings.Builder
	sb.WriteString(`INSERT INTO concierge_after_hours_calls
		(batch_id, raw_timestamp, called_at, member_name, phone_number, notes) VALUES `)

	args := make([]interface{}, 0, len(records)*cols)
	for i, r := range records {
		rec, ok := r.(domain.AfterHoursCall)
		if !ok {
			return fmt.Errorf("after-hours insert: unexpected record type %T", r)
		}
		writePlaceholders(&sb, i, cols)
		var calledAt interface{}
		if !rec.Timestamp.IsZero() {
			calledAt = rec.Timestamp
		}
		args = append(args, batchID, rec.RawTimestamp, calledAt, rec.MemberName, rec.PhoneNumber, rec.Notes)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

func writePlaceholders(sb *strings.Builder, row, cols int) {
	if row > 0 {
		sb.WriteString(", ")
	}
	sb.WriteByte('(')
	for c := 0; c < cols; c++ {
		if c > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "$%d", row*cols+c+1)
	}
	sb.WriteByte(')')
}

// RecordDiagnostic persists one per-row audit entry.
func (s *Store) RecordDiagnostic(ctx context.Context, d *domain.Diagnostic) error {
	var raw []byte
	if d.RawRecord != nil {
		raw, _ = json.Marshal(d.RawRecord)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO concierge_report_diagnostics
			(batch_id, family, row_number, severity, message, raw_record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.BatchID, string(d.Family), d.RowNumber, string(d.Severity), d.Message, nullableBytes(raw), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("record diagnostic: %w", err)
	}
	return nil
}

// RecordBatchSummary stores the family-specific aggregate on the batch row.
func (s *Store) RecordBatchSummary(ctx context.Context, batchID string, family domain.ReportFamily, summary any) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE concierge_report_batches SET summary = $2 WHERE batch_id = $1`,
		batchID, data)
	if err != nil {
		return fmt.Errorf("record batch summary: %w", err)
	}
	return nil
}

// SaveBatch upserts the batch bookkeeping row.
func (s *Store) SaveBatch(ctx context.Context, b *domain.UploadBatch) error {
	var summary []byte
	if b.Summary != nil {
		summary, _ = json.Marshal(b.Summary)
	}
	var completedAt interface{}
	if !b.CompletedAt.IsZero() {
		completedAt = b.CompletedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO concierge_report_batches
			(batch_id, org_id, family, file_name, uploaded_by, status, success, message,
			 rows_processed, rows_succeeded, rows_failed, summary, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (batch_id) DO UPDATE SET
			status = EXCLUDED.status,
			success = EXCLUDED.success,
			message = EXCLUDED.message,
			rows_processed = EXCLUDED.rows_processed,
			rows_succeeded = EXCLUDED.rows_succeeded,
			rows_failed = EXCLUDED.rows_failed,
			summary = EXCLUDED.summary,
			completed_at = EXCLUDED.completed_at`,
		b.BatchID, b.OrgID, string(b.Family), b.FileName, b.UploadedBy, string(b.Status),
		b.Success, b.Message, b.RowsProcessed, b.RowsSucceeded, b.RowsFailed,
		nullableBytes(summary), b.CreatedAt, completedAt)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	return nil
}

// GetBatch returns one batch by id.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*domain.UploadBatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT batch_id, org_id, family, file_name, uploaded_by, status, success, message,
			rows_processed, rows_succeeded, rows_failed, summary, created_at, completed_at
		FROM concierge_report_batches WHERE batch_id = $1`, batchID)

	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, ingest.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListBatches returns recent batches for an org, newest first.
func (s *Store) ListBatches(ctx context.Context, orgID string, limit, offset int) ([]domain.UploadBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, org_id, family, file_name, uploaded_by, status, success, message,
			rows_processed, rows_succeeded, rows_failed, summary, created_at, completed_at
		FROM concierge_report_batches
		WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []domain.UploadBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list batches: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBatch(r rowScanner) (*domain.UploadBatch, error) {
	var b domain.UploadBatch
	var summary []byte
	var completedAt sql.NullTime
	err := r.Scan(&b.BatchID, &b.OrgID, &b.Family, &b.FileName, &b.UploadedBy,
		&b.Status, &b.Success, &b.Message,
		&b.RowsProcessed, &b.RowsSucceeded, &b.RowsFailed,
		&summary, &b.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		b.CompletedAt = completedAt.Time
	}
	if len(summary) > 0 {
		var v any
		if json.Unmarshal(summary, &v) == nil {
			b.Summary = v
		}
	}
	return &b, nil
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

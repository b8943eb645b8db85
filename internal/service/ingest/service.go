package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/concierge-reports/internal/domain"
	"github.com/ignite/concierge-reports/internal/pkg/logger"
	"github.com/ignite/concierge-reports/internal/report"
)

// Metadata identifies who uploaded what. Carried onto the batch verbatim.
type Metadata struct {
	UploadedBy string
	FileName   string
	OrgID      string
}

// Service orchestrates report ingestion. Safe for concurrent use: each call
// gets a fresh batch id and touches no shared mutable state.
type Service struct {
	repo           Repository
	rules          report.Rules
	progress       ProgressSink
	persistTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRules overrides the default organization rules.
func WithRules(r report.Rules) Option {
	return func(s *Service) { s.rules = r }
}

// WithProgress attaches a progress sink.
func WithProgress(p ProgressSink) Option {
	return func(s *Service) { s.progress = p }
}

// WithPersistTimeout bounds each persistence call.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// NewService creates an ingest service backed by the given repository.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		rules:          report.DefaultRules(),
		persistTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the organization rules the service runs with.
func (s *Service) Rules() report.Rules { return s.rules }

// Ingest runs one full batch over the uploaded bytes. declared may be a
// concrete family or FamilyAuto to run the format detector first.
//
// The returned batch is always non-nil and tells the whole story: batch-level
// failures come back as Status == BatchFailed with a single explanatory
// message, row-level failures as entries in Errors alongside a successful
// batch. Re-running the same bytes with the same family is deterministic
// except for the fresh batch id.
func (s *Service) Ingest(ctx context.Context, fileBytes []byte, declared domain.ReportFamily, meta Metadata) *domain.UploadBatch {
	batch := &domain.UploadBatch{
		BatchID:    uuid.New().String(),
		Family:     declared,
		FileName:   meta.FileName,
		UploadedBy: meta.UploadedBy,
		OrgID:      meta.OrgID,
		Status:     domain.BatchParsing,
		CreatedAt:  time.Now().UTC(),
	}
	logger.Info("ingest started", "batch_id", batch.BatchID, "family", string(declared), "file", meta.FileName)

	// Parsing.
	s.report(ctx, batch, "parsing", 0, 0)
	sheet, err := report.ParseSheet(fileBytes)
	if err != nil {
		return s.fail(ctx, batch, 0, fmt.Sprintf("parse error: %v", err))
	}
	if len(sheet.Rows) == 0 {
		return s.fail(ctx, batch, 0, ErrEmptySheet.Error())
	}

	if declared == domain.FamilyAuto {
		detected := report.DetectFamily(sheet, s.rules)
		if detected == domain.FamilyUnknown {
			return s.fail(ctx, batch, 0, ErrUnknownFormat.Error())
		}
		batch.Family = detected
		logger.Info("format detected", "batch_id", batch.BatchID, "family", string(detected))
	}

	// Transforming. This stage cannot fail: unplaceable rows are dropped.
	batch.Status = domain.BatchTransforming
	s.report(ctx, batch, "transforming", 0, len(sheet.Rows))
	emitted := report.Transform(batch.Family, sheet, s.rules)

	// Validating: partition into accepted and rejected, one verdict per
	// record, no record depending on another's validity.
	batch.Status = domain.BatchValidating
	s.report(ctx, batch, "validating", 0, len(emitted))
	var accepted []any
	for _, e := range emitted {
		verdict := report.Validate(batch.Family, e.Record, s.rules)
		batch.RowsProcessed++

		for _, w := range verdict.Warnings {
			batch.Warnings = append(batch.Warnings, domain.RowWarning{RowNumber: e.Row, Message: w})
			s.diagnose(ctx, batch, e.Row, domain.SeverityWarning, w, e.Record)
		}

		if verdict.Valid {
			batch.RowsSucceeded++
			accepted = append(accepted, e.Record)
			continue
		}
		batch.RowsFailed++
		for _, msg := range verdict.Errors {
			batch.Errors = append(batch.Errors, domain.RowError{RowNumber: e.Row, Message: msg, Record: e.Record})
			s.diagnose(ctx, batch, e.Row, domain.SeverityError, msg, e.Record)
		}
	}

	if len(accepted) == 0 {
		return s.fail(ctx, batch, 0, ErrNoValidRecords.Error())
	}

	// Persisting: all-or-nothing. An insert or summary-write failure fails
	// the whole batch even though validation succeeded, because partial
	// persistence with no reconciliation path is worse than a clean failure.
	batch.Status = domain.BatchPersisting
	s.report(ctx, batch, "persisting", len(accepted), len(accepted))

	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	err = s.repo.InsertRecords(pctx, batch.Family, batch.BatchID, accepted)
	cancel()
	if err != nil {
		return s.fail(ctx, batch, 0, fmt.Sprintf("persist records: %v", err))
	}

	summary := report.Summarize(batch.Family, accepted, s.rules)
	pctx, cancel = context.WithTimeout(ctx, s.persistTimeout)
	err = s.repo.RecordBatchSummary(pctx, batch.BatchID, batch.Family, summary)
	cancel()
	if err != nil {
		return s.fail(ctx, batch, 0, fmt.Sprintf("persist summary: %v", err))
	}

	batch.Summary = summary
	batch.Status = domain.BatchFinalized
	batch.Success = true
	batch.CompletedAt = time.Now().UTC()
	s.saveBatch(ctx, batch)
	s.report(ctx, batch, "finalized", batch.RowsProcessed, batch.RowsProcessed)
	logger.Info("ingest finalized",
		"batch_id", batch.BatchID,
		"family", string(batch.Family),
		"processed", fmt.Sprint(batch.RowsProcessed),
		"succeeded", fmt.Sprint(batch.RowsSucceeded),
		"failed", fmt.Sprint(batch.RowsFailed))
	return batch
}

// GetBatch returns one persisted batch by id.
func (s *Service) GetBatch(ctx context.Context, batchID string) (*domain.UploadBatch, error) {
	return s.repo.GetBatch(ctx, batchID)
}

// ListBatches returns recent batches for an org, newest first.
func (s *Service) ListBatches(ctx context.Context, orgID string, limit, offset int) ([]domain.UploadBatch, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListBatches(ctx, orgID, limit, offset)
}

// Templates returns the human-facing family descriptions for UI display.
// The pipeline itself never reads these.
func (s *Service) Templates() []domain.FamilyTemplate {
	return []domain.FamilyTemplate{
		{
			Family:          domain.FamilyWeekly,
			Label:           "Weekly agent performance",
			ExpectedColumns: []string{"metric", "one column per agent", "notes"},
			FilePattern:     "weekly-metrics-*.csv",
			Notes:           "Date-range rows (MM.DD.YY-MM.DD.YY) mark each week; agent columns follow the roster.",
		},
		{
			Family:          domain.FamilyDaily,
			Label:           "Daily member interactions",
			ExpectedColumns: []string{"member", "issue", "notes"},
			FilePattern:     "daily-log-*.csv",
			Notes:           "Bare-date rows mark each day; \"NO CALLS\" records an interaction-free day.",
		},
		{
			Family:          domain.FamilyAfterHours,
			Label:           "After-hours call log",
			ExpectedColumns: []string{"timestamp", "member (+phone)", "notes"},
			FilePattern:     "after-hours-*.csv",
			Notes:           "Machine-generated timestamps; rows outside the export format are rejected.",
		},
	}
}

// fail moves the batch to the terminal Failed state with a single batch-level
// message, records a row-0 diagnostic, and discards any computed summary.
func (s *Service) fail(ctx context.Context, batch *domain.UploadBatch, row int, msg string) *domain.UploadBatch {
	batch.Status = domain.BatchFailed
	batch.Success = false
	batch.Message = msg
	batch.Summary = nil
	batch.RowsSucceeded = 0
	batch.CompletedAt = time.Now().UTC()
	batch.Errors = append(batch.Errors, domain.RowError{RowNumber: row, Message: msg})

	s.diagnose(ctx, batch, row, domain.SeverityError, msg, nil)
	s.saveBatch(ctx, batch)
	s.report(ctx, batch, "failed", batch.RowsProcessed, batch.RowsProcessed)
	logger.Warn("ingest failed", "batch_id", batch.BatchID, "family", string(batch.Family), "reason", msg)
	return batch
}

// diagnose persists one diagnostic, fire-and-forget.
func (s *Service) diagnose(ctx context.Context, batch *domain.UploadBatch, row int, sev domain.DiagnosticSeverity, msg string, raw any) {
	d := &domain.Diagnostic{
		BatchID:   batch.BatchID,
		Family:    batch.Family,
		RowNumber: row,
		Severity:  sev,
		Message:   msg,
		RawRecord: raw,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordDiagnostic(ctx, d); err != nil {
		logger.Warn("record diagnostic failed", "batch_id", batch.BatchID, "error", err.Error())
	}
}

func (s *Service) saveBatch(ctx context.Context, batch *domain.UploadBatch) {
	if err := s.repo.SaveBatch(ctx, batch); err != nil {
		logger.Warn("save batch failed", "batch_id", batch.BatchID, "error", err.Error())
	}
}

func (s *Service) report(ctx context.Context, batch *domain.UploadBatch, phase string, processed, total int) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Update(ctx, batch.BatchID, phase, processed, total); err != nil {
		logger.Warn("progress update failed", "batch_id", batch.BatchID, "error", err.Error())
	}
}

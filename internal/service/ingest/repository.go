package ingest

import (
	"context"

	"github.com/ignite/concierge-reports/internal/domain"
)

// Repository defines the persistence contract for ingested reports.
// Implementations must be safe under concurrent batches; the unique batch id
// is the isolation boundary, not locking.
type Repository interface {
	// InsertRecords bulk-inserts the accepted typed records for a batch.
	// Expected to be atomic per call: either every record lands or none do.
	InsertRecords(ctx context.Context, family domain.ReportFamily, batchID string, records []any) error

	// RecordDiagnostic persists one per-row audit entry. Fire-and-forget:
	// a failure here is logged by the caller and never fails the batch.
	RecordDiagnostic(ctx context.Context, d *domain.Diagnostic) error

	// RecordBatchSummary persists the family-specific aggregate for a batch.
	RecordBatchSummary(ctx context.Context, batchID string, family domain.ReportFamily, summary any) error

	// SaveBatch upserts the batch bookkeeping row.
	SaveBatch(ctx context.Context, batch *domain.UploadBatch) error

	// GetBatch returns one batch by id. Returns ErrBatchNotFound if absent.
	GetBatch(ctx context.Context, batchID string) (*domain.UploadBatch, error)

	// ListBatches returns recent batches for an org, newest first.
	ListBatches(ctx context.Context, orgID string, limit, offset int) ([]domain.UploadBatch, error)
}

// ProgressSink receives phase updates while a batch runs. The Redis tracker
// in internal/progress implements it; a nil sink disables reporting. Update
// failures are logged and never fail the batch.
type ProgressSink interface {
	Update(ctx context.Context, batchID, phase string, processed, total int) error
}

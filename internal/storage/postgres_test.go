package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/ignite/concierge-reports/internal/domain"
	"github.com/ignite/concierge-reports/internal/service/ingest"
)

const testBatchID = "5f2b0c9a-4f2e-4c41-9f1c-1f6f3f9d0a11"

func TestInsertRecords_Weekly_SingleTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO concierge_weekly_metrics").
		WithArgs(
			testBatchID, "12.01.24", "12.07.24", "12.01.24-12.07.24", "Ace", "Members attended to", "87", "",
			testBatchID, "12.01.24", "12.07.24", "12.01.24-12.07.24", "Angee", "Members attended to", "102", "",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	store := New(db)
	records := []any{
		domain.WeeklyMetric{WeekStart: "12.01.24", WeekEnd: "12.07.24", RawDateRange: "12.01.24-12.07.24",
			AgentName: "Ace", MetricType: "Members attended to", MetricValue: "87"},
		domain.WeeklyMetric{WeekStart: "12.01.24", WeekEnd: "12.07.24", RawDateRange: "12.01.24-12.07.24",
			AgentName: "Angee", MetricType: "Members attended to", MetricValue: "102"},
	}
	if err := store.InsertRecords(context.Background(), domain.FamilyWeekly, testBatchID, records); err != nil {
		t.Fatalf("InsertRecords: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertRecords_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO concierge_daily_interactions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store := New(db)
	records := []any{
		domain.DailyInteraction{InteractionDate: "12.01.24", MemberName: "Jane Doe"},
	}
	if err := store.InsertRecords(context.Background(), domain.FamilyDaily, testBatchID, records); err == nil {
		t.Fatal("expected insert error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertRecords_EmptyIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := New(db)
	if err := store.InsertRecords(context.Background(), domain.FamilyWeekly, testBatchID, nil); err != nil {
		t.Fatalf("empty insert should be a no-op: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordDiagnostic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO concierge_report_diagnostics").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := New(db)
	d := &domain.Diagnostic{
		BatchID:   testBatchID,
		Family:    domain.FamilyAfterHours,
		RowNumber: 3,
		Severity:  domain.SeverityWarning,
		Message:   "appears to be during business hours",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.RecordDiagnostic(context.Background(), d); err != nil {
		t.Fatalf("RecordDiagnostic: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveBatch_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO concierge_report_batches").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := New(db)
	b := &domain.UploadBatch{
		BatchID:       testBatchID,
		OrgID:         "org-001",
		Family:        domain.FamilyWeekly,
		FileName:      "weekly.csv",
		Status:        domain.BatchFinalized,
		Success:       true,
		RowsProcessed: 2,
		RowsSucceeded: 2,
		CreatedAt:     time.Now().UTC(),
		CompletedAt:   time.Now().UTC(),
	}
	if err := store.SaveBatch(context.Background(), b); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetBatch_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM concierge_report_batches").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"batch_id"}))

	store := New(db)
	if _, err := store.GetBatch(context.Background(), "ghost"); !errors.Is(err, ingest.ErrBatchNotFound) {
		t.Errorf("err = %v, want ErrBatchNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"batch_id", "org_id", "family", "file_name", "uploaded_by", "status", "success", "message",
		"rows_processed", "rows_succeeded", "rows_failed", "summary", "created_at", "completed_at",
	}).AddRow(testBatchID, "org-001", "weekly", "weekly.csv", "ops@example.com", "finalized", true, "",
		2, 2, 0, []byte(`{"total_members":189}`), now, now)

	mock.ExpectQuery("SELECT (.+) FROM concierge_report_batches").
		WithArgs("org-001", 50, 0).
		WillReturnRows(rows)

	store := New(db)
	batches, err := store.ListBatches(context.Background(), "org-001", 50, 0)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("got %d batches", len(batches))
	}
	if batches[0].Family != domain.FamilyWeekly || !batches[0].Success {
		t.Errorf("batch = %+v", batches[0])
	}
	if batches[0].Summary == nil {
		t.Error("summary JSON should round-trip")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

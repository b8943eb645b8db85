// Package ingest implements the concierge report ingestion orchestrator.
//
// One call to Service.Ingest runs a full batch: parse the uploaded bytes into
// a sheet, detect or accept the declared report family, transform rows into
// typed records, validate every record, persist the survivors, and return an
// UploadBatch describing exactly what happened. Row-level problems accumulate
// into the batch; batch-level problems (parse failure, unknown format,
// persistence failure, zero survivors) short-circuit to a Failed batch.
//
// The service layer owns all side effects and depends only on the Repository
// interface defined in repository.go. The pipeline stages it drives
// (internal/report) are pure, so this package is where timeouts, batch ids,
// diagnostics, and progress reporting live.
package ingest

package ingest

import "errors"

// Sentinel errors for the ingest service layer. Batch-level failures carry
// these messages into the returned UploadBatch; they are never raised for
// row-level problems.
var (
	ErrEmptySheet      = errors.New("sheet contains no rows")
	ErrUnknownFormat   = errors.New("sheet does not match any known report family")
	ErrNoValidRecords  = errors.New("no valid records to insert")
	ErrBatchNotFound   = errors.New("upload batch not found")
)

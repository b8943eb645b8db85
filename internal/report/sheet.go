// Package report implements the concierge report ingestion pipeline: parsing
// loosely-structured spreadsheet exports, classifying rows, transforming them
// into typed records, validating those records, and summarizing the result.
//
// Everything in this package is pure: no database, no HTTP, no clock. The
// orchestrator in internal/service/ingest owns all side effects.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one spreadsheet row as an ordered list of cell strings. Cells are
// accessed positionally; the source sheets carry no reliable header names.
type Row []string

// Cell returns the trimmed cell at index i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// IsEmpty reports whether every cell in the row is blank.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// RawSheet is an immutable ordered sequence of rows, produced once per upload.
type RawSheet struct {
	Rows []Row
}

// Columns returns the widest row length in the sheet.
func (s *RawSheet) Columns() int {
	max := 0
	for _, r := range s.Rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// ParseSheet decodes raw delimited-text bytes into a RawSheet. Rows may have
// varying field counts; human-maintained exports rarely stay rectangular.
// A decode error is a batch-level structural failure for the caller.
func ParseSheet(data []byte) (*RawSheet, error) {
	reader := csv.NewReader(stripBOM(bytes.NewReader(data)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	sheet := &RawSheet{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse sheet: %w", err)
		}
		sheet.Rows = append(sheet.Rows, Row(record))
	}
	return sheet, nil
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}

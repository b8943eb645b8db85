package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/concierge-reports/internal/domain"
	"github.com/ignite/concierge-reports/internal/pkg/httputil"
	"github.com/ignite/concierge-reports/internal/pkg/logger"
	"github.com/ignite/concierge-reports/internal/service/ingest"
)

// maxUploadBytes caps a single report upload. Real exports run well under
// a megabyte; anything bigger is a mistake, not a report.
const maxUploadBytes = 16 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// handleUpload ingests one uploaded report file.
// POST /api/reports/upload?family=weekly|daily|after_hours|auto
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "missing form field \"file\"")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("read upload: %v", err))
		return
	}

	family := domain.FamilyAuto
	if raw := r.URL.Query().Get("family"); raw != "" {
		family = domain.ParseFamily(raw)
		if family == domain.FamilyUnknown {
			httputil.BadRequest(w, fmt.Sprintf("unknown report family %q", raw))
			return
		}
	}

	meta := ingest.Metadata{
		FileName:   header.Filename,
		UploadedBy: r.FormValue("uploaded_by"),
		OrgID:      r.FormValue("org_id"),
	}

	batch := s.ingest.Ingest(r.Context(), data, family, meta)
	logger.Info("upload handled",
		"batch_id", batch.BatchID, "file", header.Filename,
		"status", string(batch.Status))

	// Batch-level failures are still a completed request: the response body
	// carries the failed batch, not an error envelope.
	status := http.StatusCreated
	if !batch.Success {
		status = http.StatusUnprocessableEntity
	}
	httputil.JSON(w, status, batch)
}

// handleTemplates lists the supported report families.
// GET /api/reports/templates
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{"templates": s.ingest.Templates()})
}

// handleListBatches returns recent batches for an org.
// GET /api/reports/batches?org_id=...&limit=50&offset=0
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	batches, err := s.ingest.ListBatches(r.Context(), q.Get("org_id"), limit, offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if batches == nil {
		batches = []domain.UploadBatch{}
	}
	httputil.OK(w, map[string]any{"batches": batches, "count": len(batches)})
}

// handleGetBatch returns one batch by id.
// GET /api/reports/batches/{batchID}
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	batch, err := s.ingest.GetBatch(r.Context(), batchID)
	if errors.Is(err, ingest.ErrBatchNotFound) {
		httputil.NotFound(w, "batch not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, batch)
}

// handleGetProgress returns the live progress snapshot for a running batch.
// GET /api/reports/batches/{batchID}/progress
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		httputil.NotFound(w, "progress tracking disabled")
		return
	}
	snap, err := s.progress.Get(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if snap == nil {
		httputil.NotFound(w, "no progress recorded for batch")
		return
	}
	httputil.OK(w, snap)
}

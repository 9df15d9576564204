package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/repro-api/internal/apperror"
	"github.com/sakif/repro-api/internal/pdf"
)

// maxUploadSize caps a single uploaded file (paper or submission) at 50 MiB.
const maxUploadSize = 50 << 20

// maxRequestSize caps the whole multipart body. The headroom above
// maxUploadSize covers multipart framing and small form fields, so a file
// of exactly 50 MiB still parses and the file-level check below owns the
// accept/reject decision.
const maxRequestSize = maxUploadSize + (1 << 20)

// multipartMemory is how much of a parsed form stays in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

type paperUploadResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Filename   string `json:"filename"`
	Title      string `json:"title,omitempty"`
	UploadedAt string `json:"uploaded_at"`
	Message    string `json:"message"`
	BytesRead  int64  `json:"bytes_read"`
}

type paperStatusResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
	Progress  int    `json:"progress_percent"`
	Message   string `json:"message"`
}

// PaperHandler accepts paper uploads and reports processing status.
//
// The processing pipeline behind these endpoints does not exist yet: an
// upload is read, titled, assigned an ID, and acknowledged with 202; status
// is a fixed placeholder. The response shapes are the stable contract the
// pipeline will eventually fill in.
type PaperHandler struct {
	logger *slog.Logger
}

// NewPaperHandler creates a PaperHandler.
func NewPaperHandler(logger *slog.Logger) *PaperHandler {
	return &PaperHandler{logger: logger}
}

// HandleUpload accepts a paper PDF.
//
// HTTP: POST /api/v1/papers (multipart: "paper" file, optional "title" field)
//
// The title fallback chain is form field → PDF metadata → filename; which
// source won is logged for later debugging of bad titles.
func (h *PaperHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, multipartParseError(err))
		return
	}

	file, header, err := r.FormFile("paper")
	if err != nil {
		writeError(w, apperror.Validation("missing_paper_file", "paper file is required"))
		return
	}
	defer file.Close()

	bytesRead, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, err)
		return
	}
	if bytesRead > maxUploadSize {
		writeError(w, apperror.TooLarge("payload_too_large", "paper file too large"))
		return
	}

	pdfTitle, pdfErr := pdf.ExtractTitle(file, header.Filename)
	if pdfErr != nil {
		// Malformed PDFs are expected; the filename fallback still applies.
		h.logger.Warn("pdf title extraction failed",
			slog.String("error", pdfErr.Error()),
			slog.String("filename", header.Filename),
		)
	}

	title, source := pdf.InferTitle(r.FormValue("title"), pdfTitle, header.Filename)
	if title != "" {
		h.logger.Info("paper title extracted",
			slog.String("paper_title", title),
			slog.String("source", source),
			slog.String("filename", header.Filename),
		)
	}

	// TODO: Upload the paper file to object storage and persist metadata in the database.
	// TODO: Trigger the async pipeline that generates the challenge spec.

	writeJSON(w, http.StatusAccepted, paperUploadResponse{
		ID:         newID("paper"),
		Status:     "processing",
		Filename:   baseFilename(header.Filename),
		Title:      title,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		Message:    "paper accepted for processing",
		BytesRead:  bytesRead,
	})
}

// HandleStatus reports the processing state of an uploaded paper.
//
// HTTP: GET /api/v1/papers/{id}
//
// Placeholder until the pipeline lands: every paper is forever 42% done.
func (h *PaperHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "id")
	if strings.TrimSpace(paperID) == "" {
		writeError(w, apperror.Validation("missing_id", "paper id is required"))
		return
	}

	writeJSON(w, http.StatusOK, paperStatusResponse{
		ID:        paperID,
		Status:    "processing",
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Progress:  42,
		Message:   "paper is being processed",
	})
}

// multipartParseError classifies a ParseMultipartForm failure: a body over
// the request cap is a 413, anything else is a malformed form.
func multipartParseError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperror.TooLarge("payload_too_large", "request body too large")
	}
	return apperror.Validation("invalid_multipart", "failed to parse multipart form")
}

// baseFilename strips any client-supplied directory components.
func baseFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

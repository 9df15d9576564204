package handler

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sakif/repro-api/internal/apperror"
)

type submissionUploadResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Filename     string `json:"filename"`
	UploadedAt   string `json:"uploaded_at"`
	BytesRead    int64  `json:"bytes_read"`
	Message      string `json:"message"`
}

// SubmissionHandler accepts solution archives for evaluation.
// Like papers, the evaluation pipeline is not built yet — uploads are
// validated, counted, and acknowledged with a queued stub.
type SubmissionHandler struct {
	logger *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{logger: logger}
}

// HandleUpload accepts a submission zip.
//
// HTTP: POST /api/v1/submissions (multipart: "submission" file)
//
// The extension gate runs before the size count: a .tar upload is rejected
// as invalid_file_type even when it would also be too large.
func (h *SubmissionHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, multipartParseError(err))
		return
	}

	file, header, err := r.FormFile("submission")
	if err != nil {
		writeError(w, apperror.Validation("missing_submission_file", "submission zip file is required"))
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".zip" {
		writeError(w, apperror.Validation("invalid_file_type", "submission must be a .zip archive"))
		return
	}

	bytesRead, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, err)
		return
	}
	if bytesRead > maxUploadSize {
		writeError(w, apperror.TooLarge("payload_too_large", "submission file too large"))
		return
	}

	// TODO: Store the archive and enqueue the evaluation pipeline.

	submissionID := newID("sub")
	h.logger.Info("submission accepted",
		slog.String("submissionID", submissionID),
		slog.String("filename", header.Filename),
		slog.Int64("bytes", bytesRead),
	)

	writeJSON(w, http.StatusAccepted, submissionUploadResponse{
		SubmissionID: submissionID,
		Status:       "queued",
		Filename:     baseFilename(header.Filename),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		BytesRead:    bytesRead,
		Message:      "submission accepted for evaluation",
	})
}

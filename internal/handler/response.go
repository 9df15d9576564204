package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/repro-api/internal/apperror"
)

// ErrorResponse is the standard error shape returned by every endpoint:
// a machine-readable code plus a human-readable message. Clients key off
// the code, never the message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader, and WriteHeader before the body —
// once Encode starts writing, header changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the standard
// error body. The service layer never sees HTTP status codes; this is the
// single place where apperror sentinels become 4xx/5xx.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrPayloadTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
		case errors.Is(err, apperror.ErrUpgradeRequired):
			status = http.StatusUpgradeRequired
		}

		writeJSON(w, status, ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500. Never leak internal details to clients.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "unexpected server error",
	})
}

// newID returns a prefixed resource ID, e.g. "paper_cv37rs3pp9olc6atsptg".
// xid values are sortable by creation time and collision-free without
// coordination.
func newID(prefix string) string {
	return prefix + "_" + xid.New().String()
}

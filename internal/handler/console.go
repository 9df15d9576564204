package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/sakif/repro-api/internal/apperror"
)

type consoleMessage struct {
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
}

// ConsoleHandler is the placeholder for the live evaluation console.
// A websocket client gets exactly one JSON message and a clean close; a
// plain GET is told to upgrade. The streaming protocol arrives with the
// evaluation pipeline.
type ConsoleHandler struct {
	logger *slog.Logger
}

// NewConsoleHandler creates a ConsoleHandler.
func NewConsoleHandler(logger *slog.Logger) *ConsoleHandler {
	return &ConsoleHandler{logger: logger}
}

// HandleConsole serves /api/v1/ws/console/{submission_id}.
func (h *ConsoleHandler) HandleConsole(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")
	if strings.TrimSpace(submissionID) == "" {
		writeError(w, apperror.Validation("missing_submission_id", "submission id is required"))
		return
	}

	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		writeError(w, apperror.UpgradeRequired("upgrade_required", "websocket upgrade required"))
		return
	}

	srv := websocket.Server{
		// The session cookie is the auth boundary, not the Origin header;
		// the default handshake would reject cross-origin frontends.
		Handshake: func(_ *websocket.Config, _ *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()
			msg := consoleMessage{
				SubmissionID: submissionID,
				Message:      "websocket console not implemented yet",
			}
			if err := websocket.JSON.Send(conn, msg); err != nil {
				h.logger.Warn("console send failed",
					slog.String("submissionID", submissionID),
					slog.String("error", err.Error()),
				)
			}
		},
	}
	srv.ServeHTTP(w, r)
}

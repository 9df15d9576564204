package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/repro-api/internal/apperror"
)

type challengeSpecResponse struct {
	PaperID     string   `json:"paper_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Steps       []string `json:"steps"`
}

type challengeTemplateRequest struct {
	Language  string `json:"language"`
	Framework string `json:"framework,omitempty"`
	Repo      string `json:"repo,omitempty"`
}

type challengeTemplateResponse struct {
	TemplateID string   `json:"template_id"`
	PaperID    string   `json:"paper_id"`
	Language   string   `json:"language"`
	Status     string   `json:"status"`
	Files      []string `json:"files"`
	Message    string   `json:"message"`
}

// ChallengeHandler serves challenge specs and scaffold requests.
// Both endpoints are placeholders: the spec is a fixed sample and template
// generation only validates and queues.
type ChallengeHandler struct {
	logger *slog.Logger
}

// NewChallengeHandler creates a ChallengeHandler.
func NewChallengeHandler(logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{logger: logger}
}

// HandleSpec returns the coding challenge derived from a paper.
//
// HTTP: GET /api/v1/challenges/{paper_id}
func (h *ChallengeHandler) HandleSpec(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paper_id")
	if strings.TrimSpace(paperID) == "" {
		writeError(w, apperror.Validation("missing_paper_id", "paper id is required"))
		return
	}

	// TODO: Load the generated challenge spec once the paper pipeline produces one.
	writeJSON(w, http.StatusOK, challengeSpecResponse{
		PaperID:     paperID,
		Title:       "Consensus log replication",
		Description: "Implement the core mechanics described in the paper with deterministic tests.",
		Tags:        []string{"distributed-systems", "consensus", "log-replication"},
		Steps: []string{
			"Read the paper and extract the invariants.",
			"Implement the log replication algorithm.",
			"Write tests that prove safety under partitions.",
		},
	})
}

// HandleTemplate queues scaffold generation for a challenge.
//
// HTTP: POST /api/v1/challenges/{paper_id}/template
// BODY: {"language": "go", "framework": "...", "repo": "..."}
func (h *ChallengeHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paper_id")
	if strings.TrimSpace(paperID) == "" {
		writeError(w, apperror.Validation("missing_paper_id", "paper id is required"))
		return
	}

	var req challengeTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperror.Validation("invalid_json", err.Error()))
		return
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		writeError(w, apperror.Validation("missing_language", "language is required"))
		return
	}

	templateID := newID("tmpl")
	h.logger.Info("template generation queued",
		slog.String("templateID", templateID),
		slog.String("paperID", paperID),
		slog.String("language", language),
	)

	writeJSON(w, http.StatusAccepted, challengeTemplateResponse{
		TemplateID: templateID,
		PaperID:    paperID,
		Language:   language,
		Status:     "queued",
		Files:      []string{"README.md", "src/main." + strings.ToLower(language), "tests/spec_test.go"},
		Message:    "template generation queued",
	})
}

// decodeJSON strictly decodes a single JSON value from the request body:
// unknown fields and trailing values are errors, so malformed clients fail
// loudly instead of being half-understood.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra JSON values")
		}
		return err
	}
	return nil
}

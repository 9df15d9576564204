package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/repro-api/internal/handler"
)

func newChallengeRouter(t *testing.T) *chi.Mux {
	t.Helper()
	h := handler.NewChallengeHandler(discardLogger())
	r := chi.NewRouter()
	r.Get("/api/v1/challenges/{paper_id}", h.HandleSpec)
	r.Post("/api/v1/challenges/{paper_id}/template", h.HandleTemplate)
	return r
}

func TestChallengeSpec(t *testing.T) {
	router := newChallengeRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenges/paper_abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PaperID string   `json:"paper_id"`
		Title   string   `json:"title"`
		Tags    []string `json:"tags"`
		Steps   []string `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paper_abc", resp.PaperID)
	assert.NotEmpty(t, resp.Title)
	assert.NotEmpty(t, resp.Tags)
	assert.NotEmpty(t, resp.Steps)
}

func postTemplate(t *testing.T, router *chi.Mux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/paper_abc/template", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChallengeTemplateQueued(t *testing.T) {
	router := newChallengeRouter(t)

	rec := postTemplate(t, router, `{"language": "Go", "framework": "chi"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		TemplateID string   `json:"template_id"`
		PaperID    string   `json:"paper_id"`
		Language   string   `json:"language"`
		Status     string   `json:"status"`
		Files      []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^tmpl_[0-9a-v]{20}$`, resp.TemplateID)
	assert.Equal(t, "paper_abc", resp.PaperID)
	assert.Equal(t, "Go", resp.Language)
	assert.Equal(t, "queued", resp.Status)
	assert.Contains(t, resp.Files, "src/main.go", "scaffold uses the lower-cased language for the entrypoint")
}

func TestChallengeTemplateInvalidJSON(t *testing.T) {
	router := newChallengeRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"truncated", `{"language": "go"`},
		{"unknown field", `{"language": "go", "surprise": true}`},
		{"trailing value", `{"language": "go"} {"again": true}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postTemplate(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_json", errorCode(t, rec))
		})
	}
}

func TestChallengeTemplateMissingLanguage(t *testing.T) {
	router := newChallengeRouter(t)

	for _, body := range []string{`{}`, `{"language": "  "}`} {
		rec := postTemplate(t, router, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Equal(t, "missing_language", errorCode(t, rec), "body %s", body)
	}
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/sakif/repro-api/internal/handler"
)

func newConsoleRouter(t *testing.T) *chi.Mux {
	t.Helper()
	h := handler.NewConsoleHandler(discardLogger())
	r := chi.NewRouter()
	r.Get("/api/v1/ws/console/{submission_id}", h.HandleConsole)
	return r
}

func TestConsolePlainGETRequiresUpgrade(t *testing.T) {
	router := newConsoleRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws/console/sub_abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUpgradeRequired, rec.Code)
	assert.Equal(t, "upgrade_required", errorCode(t, rec))
}

func TestConsoleWebsocketSendsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(newConsoleRouter(t))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/console/sub_abc"
	// Cross-origin on purpose: the handshake must not gate on Origin.
	conn, err := websocket.Dial(wsURL, "", "http://front.example")
	require.NoError(t, err)
	defer conn.Close()

	var msg struct {
		SubmissionID string `json:"submission_id"`
		Message      string `json:"message"`
	}
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "sub_abc", msg.SubmissionID)
	assert.NotEmpty(t, msg.Message)

	// The server closes after the single message.
	err = websocket.JSON.Receive(conn, &msg)
	assert.Error(t, err)
}

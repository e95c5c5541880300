package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapformai/zapform-analytics/internal/application/container"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/project"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
)

func newTestRouter(t *testing.T) (*gin.Engine, *container.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "routes.db") + "?_busy_timeout=5000"
	db, err := database.NewConnection("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema())

	logger := logging.NewChanneledLogger(&logging.LoggerConfig{
		Output:       io.Discard,
		DefaultLevel: slog.LevelError,
	})
	c := container.NewContainer(db, logger)
	return SetupRoutes(c), c
}

func seedProjectAndAction(t *testing.T, c *container.Container) (*project.Project, *actions.Action) {
	t.Helper()
	p := &project.Project{Name: "Routed", TrackingID: "trk_routes"}
	require.NoError(t, c.ProjectRepository.Create(p))
	a := &actions.Action{
		ProjectID:    p.ID,
		Name:         "exit popup",
		Type:         "popup",
		IsActive:     true,
		Priority:     7,
		Trigger:      []byte(`{"type":"exit","sensitivity":"high"}`),
		Content:      []byte(`{"title":"Wait!"}`),
		URLPatterns:  []string{"/pricing"},
		URLMatchType: actions.MatchContains,
	}
	require.NoError(t, c.ActionRepository.Create(a))
	return p, a
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostTrackAcceptsPageView(t *testing.T) {
	router, c := newTestRouter(t)
	seedProjectAndAction(t, c)

	w := postJSON(router, "/api/track", map[string]any{
		"type":         "pageview",
		"trackingId":   "trk_routes",
		"sessionToken": "tok_http",
		"url":          "https://example.com/pricing",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String(), "tracking responses are body-less")
}

func TestPostTrackRejectsMissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/track", map[string]any{"type": "pageview"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostTrackRejectsUnknownTrackingID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/track", map[string]any{
		"type":         "pageview",
		"trackingId":   "trk_missing",
		"sessionToken": "tok_1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostTrackActionRoundTrip(t *testing.T) {
	router, c := newTestRouter(t)
	_, a := seedProjectAndAction(t, c)

	// A session must exist first; the collector guarantees this ordering.
	w := postJSON(router, "/api/track", map[string]any{
		"type":         "pageview",
		"trackingId":   "trk_routes",
		"sessionToken": "tok_http",
		"url":          "https://example.com/pricing",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = postJSON(router, "/api/track-action", map[string]any{
		"actionId":     a.ID,
		"trackingId":   "trk_routes",
		"sessionToken": "tok_http",
		"type":         "impression",
		"url":          "https://example.com/pricing",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPostTrackActionUnknownSession(t *testing.T) {
	router, c := newTestRouter(t)
	_, a := seedProjectAndAction(t, c)

	w := postJSON(router, "/api/track-action", map[string]any{
		"actionId":     a.ID,
		"trackingId":   "trk_routes",
		"sessionToken": "tok_never_seen",
		"type":         "impression",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var n int
	require.NoError(t, c.DB.QueryRow("SELECT COUNT(*) FROM action_interactions").Scan(&n))
	assert.Zero(t, n)
}

func TestGetActiveActionsUnknownTrackingID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/actions/active/trk_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actions":[]}`, w.Body.String())
}

func TestGetActiveActionsShape(t *testing.T) {
	router, c := newTestRouter(t)
	_, a := seedProjectAndAction(t, c)

	req := httptest.NewRequest(http.MethodGet, "/api/actions/active/trk_routes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")

	var payload struct {
		Actions []map[string]any `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Actions, 1)
	got := payload.Actions[0]
	assert.Equal(t, a.ID, got["id"])
	assert.Equal(t, float64(7), got["priority"])
	assert.Equal(t, "contains", got["urlMatchType"])
	assert.NotContains(t, got, "projectId", "internal fields stay internal")
	assert.NotContains(t, got, "name")
}

func TestGetTrackingScript(t *testing.T) {
	router, c := newTestRouter(t)
	seedProjectAndAction(t, c)

	req := httptest.NewRequest(http.MethodGet, "/api/tracking-script/trk_routes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/javascript")
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")
	assert.Contains(t, w.Body.String(), "trk_routes")
	assert.NotContains(t, w.Body.String(), "__TRACKING_ID__")
}

func TestGetTrackingScriptUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tracking-script/trk_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "// Project not found")
}

func TestCORSPreflightAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/track", nil)
	req.Header.Set("Origin", "https://customer-site.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSysOpEndpointsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sysop/logs/levels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/sysop/stats", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSysOpLoginRejectedWhenUnconfigured(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/sysop/login", map[string]any{"password": "anything"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/config"
	"github.com/cfolkers/caribou-portal/internal/handler"
	"github.com/cfolkers/caribou-portal/internal/httpserver"
	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/repository"
	"github.com/cfolkers/caribou-portal/internal/service/auth"
	"github.com/cfolkers/caribou-portal/internal/service/engagement"
	"github.com/cfolkers/caribou-portal/internal/service/override"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
	"github.com/cfolkers/caribou-portal/internal/service/portfolio"
	"github.com/cfolkers/caribou-portal/pkg/trace"
)

type staticQuerier struct {
	rows []model.Attributes
}

func (q *staticQuerier) QueryLayer(context.Context, string, string, int) ([]model.Attributes, error) {
	return q.rows, nil
}

func (q *staticQuerier) QueryIn(context.Context, string, string, []string, string, int) []model.Attributes {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	store := repository.NewMemoryBlobStore()
	seedSnapshot(t, store)

	snapshots := repository.NewSnapshotRepository(store, "snapshots/projects.json", log)
	overrides := override.NewService(
		repository.NewOverrideRepository(store, "status/overrides.json", log), log)
	eng := engagement.NewService(&staticQuerier{}, "projects-url", "resources-url", "CRP", "Caribou", log)
	pf := portfolio.NewService(eng, overrides, snapshots, pmbok.NewEngine(), nil, 0, "Casey", log)

	hash, err := auth.HashPassword("swordfish")
	require.NoError(t, err)
	authService := auth.NewService(config.AuthConfig{
		JWTSecret:            "router-test-secret",
		OperatorName:         "coordinator",
		OperatorPasswordHash: hash,
	})

	return httpserver.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewDashboardHandler(pf, "", log),
		handler.NewOverrideHandler(overrides, pf, log),
		authService,
		log,
	)
}

func seedSnapshot(t *testing.T, store *repository.MemoryBlobStore) {
	t.Helper()
	rows := []model.Attributes{
		{"Project_ID": "P1", "Project_Name": "CRP-001 Collar Data", "Project_Status": "Assigned"},
		{"Project_ID": "P2", "Project_Name": "CRP-002 Range Plan", "Project_Status": "In Progress"},
	}
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "snapshots/projects.json", data))
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/login", "", `{"name":"coordinator","password":"swordfish"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_Healthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(trace.HeaderName()))
}

func TestRouter_Dashboard(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/dashboard", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dash portfolio.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.Metrics.TotalProjects)
}

func TestRouter_ListAndGetProjects(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)

	w = doJSON(r, http.MethodGet, "/api/projects/P1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view portfolio.ProjectView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Assigned", view.EffectiveStatus)

	w = doJSON(r, http.MethodGet, "/api/projects/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Categories(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/categories/in_progress", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	w = doJSON(r, http.MethodGet, "/api/categories/bogus", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_EngagementPersonFilter(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/engagement", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/engagement?person=Nobody", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPut, "/api/projects/P1/status", "", `{"status":"On Hold"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPut, "/api/projects/P1/status", "garbage.token.here", `{"status":"On Hold"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_OverrideLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodPut, "/api/projects/P1/status", token, `{"status":"On Hold"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/projects/P1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view portfolio.ProjectView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "On Hold", view.EffectiveStatus)
	require.NotNil(t, view.Override)
	assert.Equal(t, "Assigned", view.Override.OriginalStatus)
	assert.Equal(t, "coordinator", view.Override.UpdatedBy)

	w = doJSON(r, http.MethodPut, "/api/projects/P1/notes", token, `{"notes":"waiting on collars"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/projects/P1/status", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/projects/P1", "", "")
	view = portfolio.ProjectView{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Assigned", view.EffectiveStatus, "reset reverts to the source status")
	assert.Nil(t, view.Override)

	w = doJSON(r, http.MethodPut, "/api/projects/unknown/status", token, `{"status":"On Hold"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}


func TestRouter_UpdateStatusValidation(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodPut, "/api/projects/P1/status", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_RefreshSurfacesUpstreamFailure(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	// the static querier returns no program projects
	w := doJSON(r, http.MethodPost, "/api/refresh", token, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

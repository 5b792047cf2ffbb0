package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiapp "cifcheck/internal/api/application"
	configapp "cifcheck/internal/config/application"
	enterpriseapp "cifcheck/internal/enterprise/application"
	enterpriseinfra "cifcheck/internal/enterprise/infrastructure"
	"cifcheck/internal/infrastructure/database"
	"cifcheck/internal/infrastructure/logger"
	"cifcheck/internal/infrastructure/metrics"
)

const testAPIKey = "test-api-key"

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return setupTestRouterWithConfig(t, &configapp.RuntimeConfig{APIKey: testAPIKey, APIPort: "0", DBPath: "unused"})
}

func setupTestRouterWithConfig(t *testing.T, cfg *configapp.RuntimeConfig) http.Handler {
	t.Helper()

	testDB, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "enterprises.db"))
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	log := logger.DefaultLogger()
	m := metrics.New()
	service := enterpriseapp.NewService(log, enterpriseapp.NewLoader(), enterpriseinfra.NewRepository(testDB), m)

	return NewRouter(log, cfg, service, m.Handler())
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewServer(t *testing.T) {
	log := logger.DefaultLogger()
	service := enterpriseapp.NewService(log, enterpriseapp.NewLoader(), nil, nil)

	t.Run("valid server creation", func(t *testing.T) {
		cfg := &configapp.RuntimeConfig{APIKey: testAPIKey, APIPort: "8080", DBPath: "x.db"}
		srv, err := NewServer(log, cfg, service, nil)
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.httpServer.Addr)
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := &configapp.RuntimeConfig{APIPort: "8080", DBPath: "x.db"}
		_, err := NewServer(log, cfg, service, nil)
		assert.Error(t, err)
	})
}

func TestServer_Shutdown(t *testing.T) {
	log := logger.DefaultLogger()
	service := enterpriseapp.NewService(log, enterpriseapp.NewLoader(), nil, nil)
	cfg := &configapp.RuntimeConfig{APIKey: testAPIKey, APIPort: "0", DBPath: "x.db"}
	srv, err := NewServer(log, cfg, service, nil)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.ErrorIs(t, <-errChan, http.ErrServerClosed)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SwaggerOnlyInDevMode(t *testing.T) {
	router := setupTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	devRouter := setupTestRouterWithConfig(t, &configapp.RuntimeConfig{APIKey: testAPIKey, APIPort: "0", DBPath: "unused", DevMode: true})
	w = httptest.NewRecorder()
	devRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/cif/validate")
	assert.Contains(t, doc.Paths, "/enterprises/{cif}")

	w = httptest.NewRecorder()
	devRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/enterprises", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RegistryFlow(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/enterprises",
		`{"cif":"a58818501","phone":"600000000","enterprise_name":"Acme"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created apiapp.EnterpriseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "A58818501", created.CIF)
	assert.NotEmpty(t, created.ID)

	w = doRequest(t, router, http.MethodGet, "/api/v1/enterprises/A58818501", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got apiapp.EnterpriseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Acme", got.EnterpriseName)

	w = doRequest(t, router, http.MethodGet, "/api/v1/enterprises", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []apiapp.EnterpriseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	assert.Len(t, all, 1)

	w = doRequest(t, router, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), `cifcheck_record_loads_total{outcome="ok"} 1`)
}

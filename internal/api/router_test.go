package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sighting-intake-service/internal/adapters/repositories"
	"sighting-intake-service/internal/config"
)

const validBody = `{"species":"Owl","location":{"latitude":1,"longitude":2},"dateTime":"d"}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{
			Port:         8080,
			PublicDir:    dir,
			MaxBodyBytes: 1024,
		},
		Store: config.StoreConfig{
			Driver:   config.DriverFile,
			FilePath: filepath.Join(dir, "requests.json"),
		},
		Security: config.SecurityConfig{
			CookieSecret:      "router-test-secret",
			SessionCookieName: "echo-session",
			SessionTTL:        time.Hour,
			CORSOrigins:       []string{"http://localhost:8081"},
			RateLimitWindow:   time.Minute,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	require.NoError(t, repositories.EnsureFile(cfg.Store.FilePath))
	h, err := NewRouter(cfg, repositories.NewFileSightingRepository(cfg.Store.FilePath))
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func TestRouterSubmitAndList(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodPost, "/api/sightings", validBody, jsonHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/sightings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"species":"Owl"`)
}

func TestRouterServesDataFileStatically(t *testing.T) {
	cfg := testConfig(t)
	h := newTestRouter(t, cfg)

	do(h, http.MethodPost, "/api/sightings", validBody, jsonHeaders)

	rec := do(h, http.MethodGet, "/requests.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"species": "Owl"`)
}

func TestRouterSecurityHeaders(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, kv := range securityHeaders {
		assert.Equal(t, kv[1], rec.Header().Get(kv[0]), kv[0])
	}
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterKeepsIncomingRequestID(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "abc-123"})

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRouterCORS(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodPost, "/api/sightings", validBody, map[string]string{
		"Content-Type": "application/json",
		"Origin":       "http://localhost:8081",
	})
	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(h, http.MethodPost, "/api/sightings", validBody, map[string]string{
		"Content-Type": "application/json",
		"Origin":       "http://evil.example",
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(h, http.MethodOptions, "/api/sightings", "", map[string]string{
		"Origin":                        "http://localhost:8081",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterBodyTooLarge(t *testing.T) {
	cfg := testConfig(t)
	h := newTestRouter(t, cfg)

	big := `{"species":"` + strings.Repeat("a", 2048) + `","location":{"latitude":1,"longitude":2},"dateTime":"d"}`
	rec := do(h, http.MethodPost, "/api/sightings", big, jsonHeaders)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"message":"Request body too large"}`, rec.Body.String())

	data, err := os.ReadFile(cfg.Store.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRouterMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodDelete, "/api/sightings", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterMetrics(t *testing.T) {
	h := newTestRouter(t, testConfig(t))
	do(h, http.MethodPost, "/api/sightings", validBody, jsonHeaders)

	rec := do(h, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sightings_submitted_total{outcome="stored"}`)
	assert.Contains(t, rec.Body.String(), "sighting_store_operation_duration_seconds")
}

func TestRouterSessionCookie(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Empty(t, rec.Result().Cookies(), "read-only requests leave the session alone")

	rec = do(h, http.MethodPost, "/api/sightings", validBody, jsonHeaders)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "echo-session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = do(h, http.MethodPost, "/api/sightings", `{}`, jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "rejected submissions do not touch the session")
}

func TestRouterRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimitRequests = 2
	h := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(h, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"Too many requests"}`, rec.Body.String())
}

func TestRouterRecoversFromPanics(t *testing.T) {
	cfg := testConfig(t)
	h, err := NewRouter(cfg, panicRepo{})
	require.NoError(t, err)

	rec := do(h, http.MethodGet, "/api/sightings", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRouterRequiresCookieSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.CookieSecret = ""

	_, err := NewRouter(cfg, repositories.NewFileSightingRepository(cfg.Store.FilePath))
	assert.Error(t, err)
}

func TestStatusWriterRecordsImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}

	n, err := sw.Write(bytes.Repeat([]byte("x"), 5))

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, sw.status)
	assert.Equal(t, 5, sw.bytes)
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrilog/backend/config"
	"github.com/pageza/nutrilog/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:     config.Test,
		ServerHost:      "127.0.0.1",
		ServerPort:      "0",
		CORSOrigins:     []string{"http://localhost:5173"},
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		RateLimit:       10,
		RateLimitWindow: time.Minute,
		ExportURLTTL:    time.Minute,
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), testhelpers.SetupTestDB(t), nil, nil)
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nutrilog_http_requests_total")
}

func TestWriteRoutesWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), testhelpers.SetupTestDB(t), nil, nil)

	body := `{"name":"Tester","email":"tester@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), testhelpers.SetupTestDB(t), nil, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

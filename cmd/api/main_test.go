package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agri-chat/internal/chat"
	"agri-chat/internal/config"
	"agri-chat/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedProvider struct{}

func (cannedProvider) Generate(ctx context.Context, req chat.GenerateRequest) (string, error) {
	return "Sow after the first rains.", nil
}

func newTestRouter(t *testing.T, staticDir string) http.Handler {
	cfg := &config.Config{
		StaticDir:          staticDir,
		CORSAllowedOrigins: []string{"*"},
	}
	sessions := chat.NewSessionCache(8, cannedProvider{}, chat.DefaultSessionOptions())
	return createRouter(cfg, sessions, metrics.NewMetrics())
}

func TestRouterServesStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Krishi chat</h1>"), 0o644))

	router := newTestRouter(t, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Krishi chat")
}

func TestRouterChatAndMetrics(t *testing.T) {
	router := newTestRouter(t, filepath.Join(t.TempDir(), "missing"))

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"userMessage": "When should I plant rice?"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"botResponse": "Sow after the first rains."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "agrichat_http_requests_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "agrichat_active_sessions 1"))
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

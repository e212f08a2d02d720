package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/config"
)

func startServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.manager.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.manager.Shutdown(shutdownCtx)
		srv.tracer.Close()
	})
	return srv
}

func TestServerRoutes(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	srv := startServer(t, cfg)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"shell_connected":false`)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/sess_missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "edgelink_http_requests_total")
}

func TestManagerConfigFromPrefs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edge_position: right\nvertical_offset: 25\nhandle_width: 30\n"), 0o600))

	prefs, err := config.LoadShellPrefs(path)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Window.ChromeHeight = 120
	mc := managerConfig(cfg, prefs)

	assert.False(t, mc.Handle.Left)
	assert.Equal(t, 25, mc.Handle.VerticalOffset)
	assert.Equal(t, 30, mc.Handle.Width)
	assert.Equal(t, 300, mc.Handle.Height)
	assert.Equal(t, 120, mc.ChromeHeight)
	assert.Equal(t, 800, mc.Policy.PortraitWidth)
	assert.Equal(t, 2400, mc.Screen.Height)
	assert.Equal(t, 500*time.Millisecond, mc.TaskResolveDelay)
}

func TestNewServerRejectsBadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

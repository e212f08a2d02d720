package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsMatchDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default().Window, cfg.Window)
	assert.Equal(t, Default().Task, cfg.Task)
	assert.Equal(t, 150*time.Millisecond, cfg.Window.ResizeDebounce)
	assert.Equal(t, 500*time.Millisecond, cfg.Task.ResolveDelay)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("WINDOW_DENSITY_DPI", "240")
	t.Setenv("WINDOW_RESIZE_DEBOUNCE", "80ms")
	t.Setenv("TASK_RESOLVE_RETRIES", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 240, cfg.Window.DensityDPI)
	assert.Equal(t, 80*time.Millisecond, cfg.Window.ResizeDebounce)
	assert.Equal(t, 3, cfg.Task.ResolveRetries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"zero density", func(c *Config) { c.Window.DensityDPI = 0 }, "WINDOW_DENSITY_DPI"},
		{"ratio above one", func(c *Config) { c.Window.LandscapeHeightRatio = 1.5 }, "WINDOW_LANDSCAPE_HEIGHT_RATIO"},
		{"negative retries", func(c *Config) { c.Task.ResolveRetries = -1 }, "TASK_RESOLVE_RETRIES"},
		{"zero debounce", func(c *Config) { c.Window.ResizeDebounce = 0 }, "WINDOW_RESIZE_DEBOUNCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadShellPrefs(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "prefs.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("edge_position: right\nvertical_offset: 80\npinned_apps:\n  - com.example.mail\n"), 0o600))

	tomlPath := filepath.Join(dir, "prefs.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("edge_position = \"left\"\nvertical_offset = 150\nhandle_height = 420\n"), 0o600))

	t.Run("empty path gives defaults", func(t *testing.T) {
		prefs, err := LoadShellPrefs("")
		require.NoError(t, err)
		assert.Equal(t, DefaultShellPrefs(), prefs)
	})

	t.Run("yaml", func(t *testing.T) {
		prefs, err := LoadShellPrefs(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, EdgeRight, prefs.EdgePosition)
		assert.Equal(t, 80, prefs.VerticalOffset)
		assert.Equal(t, 300, prefs.HandleHeight)
		assert.True(t, prefs.IsPinned("com.example.mail"))
		assert.False(t, prefs.IsPinned("com.example.maps"))
	})

	t.Run("toml clamps offset", func(t *testing.T) {
		prefs, err := LoadShellPrefs(tomlPath)
		require.NoError(t, err)
		assert.Equal(t, EdgeLeft, prefs.EdgePosition)
		assert.Equal(t, 100, prefs.VerticalOffset)
		assert.Equal(t, 420, prefs.HandleHeight)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "prefs.ini")
		require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o600))
		_, err := LoadShellPrefs(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadShellPrefs(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}

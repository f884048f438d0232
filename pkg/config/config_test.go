package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PlacesConfig(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("GOOGLE_PLACES_API_KEY", "test-key")
	t.Setenv("PLACES_PAGE_DELAY", "500ms")
	t.Setenv("PLACES_MAX_PAGES", "4")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://example.ca")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google", cfg.Places.Provider)
	assert.Equal(t, "test-key", cfg.Places.APIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.Places.PageDelay)
	assert.Equal(t, 4, cfg.Places.MaxPages)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.ca"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PLACES_PROVIDER", "mock")
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.ServerAddr())
	assert.Equal(t, 2*time.Second, cfg.Places.PageDelay)
	assert.Equal(t, 10, cfg.Places.MaxPages)
	assert.Equal(t, "Canada", cfg.Places.Country)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_LegacyAPIKeyFallback(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Places.APIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PLACES_PROVIDER", "google")
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_PLACES_API_KEY=file-key\nPLACES_MAX_PAGES=3\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("PLACES_PROVIDER", "google")
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("PLACES_MAX_PAGES", "")
	os.Unsetenv("GOOGLE_PLACES_API_KEY")
	os.Unsetenv("PLACES_MAX_PAGES")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Places.APIKey)
	assert.Equal(t, 3, cfg.Places.MaxPages)
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 12, cfg.Roster.PasswordLength)
	assert.Equal(t, int64(5*1024*1024), cfg.Roster.MaxFileBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/webp"}, cfg.Photos.AllowedMIMEs)
	assert.Equal(t, "http://localhost:8080/api/photos/", cfg.Photos.PublicURLBase)
	assert.Equal(t, 2*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.False(t, cfg.Drive.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ROSTER_PASSWORD_LENGTH", "4")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "http://localhost/api/drive/callback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Roster.PasswordLength)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Drive.Enabled())
}

func TestLoadClient(t *testing.T) {
	chdirTemp(t)
	t.Setenv("YEARBOOK_API_URL", "http://yearbook.test/api/")
	t.Setenv("YEARBOOK_TOKEN", "tok")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://yearbook.test/api", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

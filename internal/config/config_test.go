package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:5050/api/personas", cfg.Service.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Service.Timeout.Duration())
	assert.Equal(t, 100, cfg.Generation.MaxCount)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeFile(t, dir, "persona.toml", `
[server]
port = 9000
allowed_origins = ["https://ui.example"]

[service]
base_url = "http://personas.internal/api/personas"
timeout = "15s"

[session]
timeout = "30m"

[generation]
max_count = 50
`)
	writeFile(t, dir, ".env", "MAX_PERSONA_COUNT=25\nLOG_MODE=production\n")
	// godotenv exports into the process environment directly.
	t.Cleanup(func() {
		os.Unsetenv("MAX_PERSONA_COUNT")
		os.Unsetenv("LOG_MODE")
	})
	t.Setenv("PORT", "9100")
	t.Setenv("SESSION_TIMEOUT", "45m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env overrides toml")
	assert.Equal(t, []string{"https://ui.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://personas.internal/api/personas", cfg.Service.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Service.Timeout.Duration())
	assert.Equal(t, 45*time.Minute, cfg.Session.Timeout.Duration())
	assert.Equal(t, 25, cfg.Generation.MaxCount, ".env overrides toml")
	assert.Equal(t, "production", cfg.Logging.Mode)
}

func TestLoadAllowedOriginsFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("PORT", "")
	t.Setenv("PERSONA_SERVICE_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("PERSONA_SERVICE_TIMEOUT", "")
	t.Setenv("MAX_PERSONA_COUNT", "-1")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"MAILPANE_ADDR", "MAILPANE_API_URL", "MAILPANE_USER", "MAILPANE_OPEN_BROWSER", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3030", cfg.Addr)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Empty(t, cfg.User)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:3030/", cfg.BrowserURL())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MAILPANE_ADDR", ":4000")
	t.Setenv("MAILPANE_API_URL", "https://mail.example.com/api")
	t.Setenv("MAILPANE_USER", "me@example.com")
	t.Setenv("MAILPANE_OPEN_BROWSER", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://mail.example.com/api", cfg.APIURL)
	assert.Equal(t, "me@example.com", cfg.User)
	assert.True(t, cfg.OpenBrowser)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:4000/", cfg.BrowserURL())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("MAILPANE_API_URL", "")
	t.Setenv("MAILPANE_OPEN_BROWSER", "maybe")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestValidate_RejectsAPIURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "/relative", "http://", "http://%zz"} {
		cfg := &Config{Addr: ":1", APIURL: raw}
		assert.Error(t, cfg.Validate(), raw)
	}
}

func TestLoadMailAPI_RequiresUser(t *testing.T) {
	t.Setenv("MAILAPI_USER", "")
	_, err := LoadMailAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAILAPI_USER")
}

func TestLoadMailAPI_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MAILAPI_USER", "Me@Example.com")
	t.Setenv("MAILAPI_DB_PATH", "")
	t.Setenv("MAILAPI_SEED", "~/seed.yaml")
	t.Setenv("MAILAPI_ADDR", "")

	cfg, err := LoadMailAPI()
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.User)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr)
	assert.Equal(t, filepath.Join(home, ".config/mailpane/mailapi.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, "seed.yaml"), cfg.SeedPath)
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	assert.NoError(t, LoadDotEnv())
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAILPANE_USER=file@example.com\nMAILPANE_TEST_ONLY=from-file\n"), 0o600))
	require.NoError(t, os.Chdir(dir))
	t.Setenv("MAILPANE_USER", "env@example.com")
	t.Setenv("MAILPANE_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("MAILPANE_TEST_ONLY"))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "env@example.com", os.Getenv("MAILPANE_USER"))
	assert.Equal(t, "from-file", os.Getenv("MAILPANE_TEST_ONLY"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Tool.Primary = "/opt/hledger/bin/hledger"
	cfg.Server.Port = 9191

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Tool.Primary, got.Tool.Primary)
	assert.Equal(t, cfg.Tool.Secondary, got.Tool.Secondary)
	assert.Equal(t, cfg.Tool.TimeoutMS, got.Tool.TimeoutMS)
	assert.Equal(t, 9191, got.Server.Port)
	assert.Equal(t, cfg.Server.MaxUploadBytes, got.Server.MaxUploadBytes)
	assert.Equal(t, cfg.History.Path, got.History.Path)
	assert.Equal(t, cfg.Display.Currency, got.Display.Currency)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "hledger", cfg.Tool.Primary)
	assert.Equal(t, "ledger", cfg.Tool.Secondary)
	assert.Equal(t, 5000, cfg.Tool.TimeoutMS)
	assert.Equal(t, 5*time.Second, cfg.Tool.Timeout())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "ledger-dashboard.db", cfg.History.Path)
	assert.Equal(t, "USD", cfg.Display.Currency)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// A present-but-broken file still errors.
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("tool: ["), 0o644))
	_, err = LoadOrDefault(path)
	require.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "primary: hledger")
	assert.Contains(t, contents, "secondary: ledger")
	assert.Contains(t, contents, "timeout_ms: 5000")
	assert.Contains(t, contents, "max_upload_bytes:")
	assert.Contains(t, contents, "currency: USD")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LEDGER_TOOL_PRIMARY", "/usr/local/bin/hledger")
	t.Setenv("LEDGER_TOOL_TIMEOUT_MS", "250")
	t.Setenv("LEDGER_SERVER_PORT", "not-a-number")
	t.Setenv("LEDGER_DISPLAY_CURRENCY", "EUR")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "/usr/local/bin/hledger", cfg.Tool.Primary)
	assert.Equal(t, 250, cfg.Tool.TimeoutMS)
	// Malformed values leave the default in place.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "EUR", cfg.Display.Currency)
}

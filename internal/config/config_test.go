package config

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/vintr/updatemon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 60
monitor = false
database = "/path/to/rows.db"
auth = true
auth_timeout = 10
log_level = "debug"
`)
	configPath := filepath.Join(tempDir, "updatemon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("UPDATEMON_CONFIG", configPath)

	cfg, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Interval, "Expected Interval 60")
	assert.False(t, cfg.Monitor, "Expected Monitor false")
	assert.Equal(t, "/path/to/rows.db", cfg.Database, "Expected Database /path/to/rows.db")
	assert.True(t, cfg.Auth, "Expected Auth true")
	assert.Equal(t, 10, cfg.AuthTimeout, "Expected AuthTimeout 10")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	cfg, err := load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 300, cfg.Interval, "Expected default Interval 300")
	assert.False(t, cfg.Monitor, "Expected default Monitor false")
	assert.Equal(t, "/var/lib/updatemon/updatemon.db", cfg.Database, "Expected default Database")
	assert.False(t, cfg.Auth, "Expected default Auth false")
	assert.Equal(t, 30, cfg.AuthTimeout, "Expected default AuthTimeout 30")
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "updatemon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("UPDATEMON_CONFIG", configPath)

	_, err = load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	_, err := load([]string{"--log-level", "loud"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	cfg, err := load([]string{"--log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestInvalidInterval(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	_, err := load([]string{"--interval", "0"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestInvalidAuthTimeout(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	_, err := load([]string{"--auth-timeout", "0"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidAuthTimeout))
}

func TestMonitorModeNeedsNoDatabase(t *testing.T) {
	t.Setenv("UPDATEMON_CONFIG", "")

	cfg, err := load([]string{"--monitor", "--database", ""})
	require.NoError(t, err)
	assert.True(t, cfg.Monitor)
	assert.Empty(t, cfg.Database)
}

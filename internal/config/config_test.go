package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// No loom.yaml in the temp working directory.
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:7420", cfg.Server.Addr())
	assert.Equal(t, "", cfg.Catalog.Path)
	assert.Equal(t, "memory", cfg.Analytics.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Server.Auth.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: /etc/loom/catalog.json
server:
  host: 0.0.0.0
  port: 8080
  base_url: https://cdn.example.com/loom
analytics:
  backend: redis
  redis:
    addr: localhost:6379
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/loom/catalog.json", cfg.Catalog.Path)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "https://cdn.example.com/loom", cfg.Server.BaseURL)
	assert.Equal(t, "redis", cfg.Analytics.Backend)
	assert.Equal(t, "localhost:6379", cfg.Analytics.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("LOOM_SERVER_PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad port",
			yaml:    "server:\n  port: 99999\n",
			wantErr: "server.port",
		},
		{
			name:    "bad base url",
			yaml:    "server:\n  base_url: cdn.example.com\n",
			wantErr: "server.base_url",
		},
		{
			name:    "unknown backend",
			yaml:    "analytics:\n  backend: kafka\n",
			wantErr: "analytics.backend",
		},
		{
			name:    "redis without addr",
			yaml:    "analytics:\n  backend: redis\n",
			wantErr: "analytics.redis.addr",
		},
		{
			name:    "postgres without url",
			yaml:    "analytics:\n  backend: postgres\n",
			wantErr: "analytics.postgres.url",
		},
		{
			name:    "auth without credentials",
			yaml:    "server:\n  auth:\n    enabled: true\n",
			wantErr: "server.auth",
		},
		{
			name:    "bad log level",
			yaml:    "log:\n  level: loud\n",
			wantErr: "log.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(LogConfig{Level: "loudest", Format: "json"})
	assert.Error(t, err)
}

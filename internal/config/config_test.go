package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  log_level: debug
  request_timeout: 30s
  cors_origins: ["http://localhost:5173"]
  trust_proxy: true
service:
  name: Example Ads
  slug: example_ads
auth:
  mode: login
  login: test login
  password: test password
gateway:
  kind: http
  base_url: http://localhost:9091
  timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Server.Level())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, "Example Ads", cfg.Service.Name)
	assert.Equal(t, "login", cfg.Auth.Mode)
	assert.Equal(t, "test login", cfg.Auth.Login)
	assert.Equal(t, "http", cfg.Gateway.Kind)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("DRIVER_AUTH_TOKEN", "super_secret_token")
	t.Setenv("DRIVER_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 600*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.Server.Level())
	assert.Equal(t, "Driver Service Example", cfg.Service.Name)
	assert.Equal(t, "driver_service_example", cfg.Service.Slug)
	assert.Equal(t, "token", cfg.Auth.Mode)
	assert.Equal(t, "super_secret_token", cfg.Auth.Token)
	assert.Equal(t, "fake", cfg.Gateway.Kind)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  mode: token
  token: from-file
`)
	t.Setenv("DRIVER_AUTH_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Token)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"token mode without token", "auth:\n  mode: token\n"},
		{"login mode without password", "auth:\n  mode: login\n  login: someone\n"},
		{"unknown auth mode", "auth:\n  mode: oauth\n  token: x\n"},
		{"http gateway without url", "auth:\n  token: x\ngateway:\n  kind: http\n"},
		{"bad log level", "server:\n  log_level: loud\nauth:\n  token: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

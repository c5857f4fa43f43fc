package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TYPERACE_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Storage.RoomTTL)
	assert.Equal(t, 5, cfg.Room.MaxPlayers)
	assert.True(t, cfg.Room.RequireCreatorOnDestroy)
	assert.Equal(t, 10*time.Second, cfg.Game.CountdownDelay)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
auth:
  secret: file-secret
room:
  max_players: 8
`), 0o644))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, 8, cfg.Room.MaxPlayers)
	// Untouched keys keep their defaults
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
auth:
  secret: file-secret
`), 0o644))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TYPERACE_SERVER_PORT", "9999")
	t.Setenv("TYPERACE_STORAGE_ROOM_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Storage.RoomTTL)
}

func TestDefaultAllowedOrigins(t *testing.T) {
	t.Setenv("TYPERACE_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Server.AllowedOrigins)
}

func TestAllowedOriginsFromEnvCommaSeparated(t *testing.T) {
	t.Setenv("TYPERACE_AUTH_SECRET", "test-secret")
	t.Setenv("TYPERACE_SERVER_ALLOWED_ORIGINS", "https://race.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"https://race.example.com", "https://staging.example.com"},
		cfg.Server.AllowedOrigins)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "postgres" }},
		{"missing redis url", func(c *Config) { c.Storage.Type = "redis"; c.Storage.RedisURL = "" }},
		{"bad max players", func(c *Config) { c.Room.MaxPlayers = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.Secret = "s"
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "server.port", envTransform("TYPERACE_SERVER_PORT"))
	assert.Equal(t, "room.max_players", envTransform("TYPERACE_ROOM_MAX_PLAYERS"))
	assert.Equal(t, "storage.redis_url", envTransform("TYPERACE_STORAGE_REDIS_URL"))
}

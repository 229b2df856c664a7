package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "host=localhost user=app dbname=spaces"
auth:
  admin_user_id: "admin-1"
  cron_secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, "X-User-ID", cfg.Auth.UserIDHeader)
	assert.Equal(t, "X-User-Email", cfg.Auth.UserEmailHeader)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.BaseURL)
	assert.Equal(t, 30, cfg.Dispatcher.LookaheadMinutes)
	assert.Equal(t, 1, cfg.Dispatcher.Workers)
	assert.Equal(t, 300, cfg.Cache.SpaceTTLSeconds)
	assert.Equal(t, 900, cfg.Cache.ListTTLSeconds)
	assert.Equal(t, 24, cfg.Cache.UserTTLHours)
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  rate_limit_per_sec: 50
database:
  dsn: "host=localhost user=app dbname=spaces"
auth:
  admin_user_id: "admin-1"
  cron_secret: "s3cret"
dispatcher:
  lookahead_minutes: 45
  workers: 4
cache:
  space_ttl_seconds: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, float64(50), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 45, cfg.Dispatcher.LookaheadMinutes)
	assert.Equal(t, 4, cfg.Dispatcher.Workers)
	assert.Equal(t, 120, cfg.Cache.SpaceTTLSeconds)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing dsn", "auth:\n  admin_user_id: a\n  cron_secret: s\n"},
		{"missing admin", "database:\n  dsn: x\nauth:\n  cron_secret: s\n"},
		{"missing cron secret", "database:\n  dsn: x\nauth:\n  admin_user_id: a\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
mycase:
  api_url: https://api.example.com/v1
  web_url: https://mycase.example.com
channel:
  jwt_key: secret
dialogue:
  url: http://localhost:5005/webhooks/rest/webhook
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.MyCase.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.MyCase.RetryDelay)
	assert.Equal(t, "admin", cfg.Mongo.AuthSource)
	assert.Equal(t, "analytics", cfg.Mongo.AnalyticsCollection)
	assert.Equal(t, "feedback", cfg.Mongo.FeedbackCollection)
	assert.Equal(t, "/socket", cfg.Channel.Path)
	assert.Equal(t, "HS256", cfg.Channel.JWTMethod)
	assert.Equal(t, "user_uttered", cfg.Channel.UserMessageEvent)
	assert.Equal(t, "bot_uttered", cfg.Channel.BotMessageEvent)
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
mycase:
  api_url: https://api.example.com/v1
  web_url: https://mycase.example.com
  timeout: 3s
channel:
  jwt_key: secret
  jwt_method: HS512
  session_persistence: true
dialogue:
  url: http://localhost:5005/webhooks/rest/webhook
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.MyCase.Timeout)
	assert.Equal(t, "HS512", cfg.Channel.JWTMethod)
	assert.True(t, cfg.Channel.SessionPersistence)
}

func TestLoadFile_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
mycase:
  web_url: https://mycase.example.com
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate config")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

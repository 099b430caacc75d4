package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTokens(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPracticumToken, EnvTelegramToken, EnvTelegramChatID} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCheckTokens_AllMissing(t *testing.T) {
	err := DefaultConfig().CheckTokens()

	var missing *MissingTokensError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{EnvPracticumToken, EnvTelegramToken, EnvTelegramChatID}, missing.Names)
	assert.Contains(t, err.Error(), "PRACTICUM_TOKEN")
}

func TestCheckTokens_OneMissing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Practicum.Token = "p"
	cfg.Telegram.BotToken = "  "
	cfg.Telegram.ChatID = "1"

	var missing *MissingTokensError
	require.True(t, errors.As(cfg.CheckTokens(), &missing))
	assert.Equal(t, []string{EnvTelegramToken}, missing.Names)
}

func TestCheckTokens_OK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Practicum.Token = "p"
	cfg.Telegram.BotToken = "b"
	cfg.Telegram.ChatID = "1"
	assert.NoError(t, cfg.CheckTokens())
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	clearTokens(t)
	t.Setenv(EnvPracticumToken, "from-env")

	path := writeConfig(t, `
practicum:
  token: from-file
  timeout: 5
telegram:
  bot_token: bot
  chat_id: "42"
monitor:
  retry_period: 60
  state_file: /tmp/state.json
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Practicum.Token)
	assert.Equal(t, "bot", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, DefaultEndpoint, cfg.Practicum.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, time.Minute, cfg.RetryPeriod())
	assert.Equal(t, "/tmp/state.json", cfg.Monitor.StateFile)
	assert.Equal(t, path, cfg.Path())
	assert.NoError(t, cfg.CheckTokens())
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearTokens(t)
	path := writeConfig(t, "monitor:\n  retry_period: 0\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "practicum: [oops"))
	assert.Error(t, err)
}

func TestLoadConfigWithDefaults_NoFile(t *testing.T) {
	clearTokens(t)
	t.Setenv(EnvTelegramChatID, "777")
	dir := t.TempDir()
	wd, werr := os.Getwd()
	require.NoError(t, werr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfigWithDefaults("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, "777", cfg.Telegram.ChatID)
	assert.Equal(t, 10*time.Minute, cfg.RetryPeriod())
	assert.Equal(t, 7*24*time.Hour, cfg.Lookback())
	assert.Zero(t, cfg.HTTPTimeout())
}

func TestLoadConfigWithDefaults_BrokenFileIsError(t *testing.T) {
	clearTokens(t)
	_, err := LoadConfigWithDefaults(writeConfig(t, "app:\n  environment: moon\n"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestValidate_ServerRequiresAuth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "s"
	cfg.Auth.Password = "p"
	assert.NoError(t, cfg.Validate())
}

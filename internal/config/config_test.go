package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "crewcheck.db", cfg.Store.Path)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, 30, cfg.Telegram.PollTimeoutSecs)
	assert.Equal(t, 9, cfg.Remind.Hour)
	assert.Equal(t, []int{30, 14, 7, 0}, cfg.Remind.Checkpoints)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/crewcheck
telegram:
  token: "123:abc"
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/crewcheck", cfg.Store.DatabaseURL)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 9, cfg.Remind.Hour)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CREWCHECK_STORE_DRIVER", "postgres")
	t.Setenv("CREWCHECK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func validServeConfig() *Config {
	return &Config{
		Store:    StoreConfig{Driver: "sqlite", Path: "crewcheck.db"},
		Telegram: TelegramConfig{Token: "123:abc"},
		Remind:   RemindConfig{Hour: 9, Checkpoints: []int{30, 14, 7, 0}},
		Server:   ServerConfig{Port: 8080},
	}
}

func TestValidateServe(t *testing.T) {
	assert.NoError(t, validServeConfig().Validate("serve"))
}

func TestValidateServeMissingToken(t *testing.T) {
	cfg := validServeConfig()
	cfg.Telegram.Token = ""

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token is required")
}

func TestValidateServeBadRemindHour(t *testing.T) {
	cfg := validServeConfig()
	cfg.Remind.Hour = 24

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remind.hour")
}

func TestValidateStoreDriver(t *testing.T) {
	cfg := validServeConfig()
	cfg.Store.Driver = "postgres"
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")

	cfg.Store.DatabaseURL = "postgres://localhost/crewcheck"
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "oracle"
	err = cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validServeConfig().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

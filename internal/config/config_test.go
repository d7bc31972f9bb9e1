package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/impnet/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoadByPath_Success(t *testing.T) {
	os.Setenv("DB_PASSWORD", "mypassword")
	defer os.Unsetenv("DB_PASSWORD")

	// Пример содержимого конфигурационного файла
	content := `
env: "local"
log_path: "/tmp/impnet.log"
api:
  base_url: "http://10.0.0.5:8001"
session:
  register_mode: "then_login"
storage:
  driver: "postgres"
  profile: "kiosk-1"
  database:
    host: "db"
    port: 5433
    user: "impnet"
    name: "state"
ui:
  theme: "light"
mock_server:
  address: "localhost:9000"
  timeout: "4s"
  idle_timeout: "60s"
  token_ttl: 15
migrations:
  path: "./migrations"
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	err = tmpFile.Close()
	assert.NoError(t, err)

	cfg := config.MustLoadByPath(tmpFile.Name())

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "/tmp/impnet.log", cfg.LogPath)
	assert.Equal(t, "http://10.0.0.5:8001", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "then_login", cfg.Session.RegisterMode)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "kiosk-1", cfg.Storage.Profile)
	assert.Equal(t, "db", cfg.Storage.Database.Host)
	assert.Equal(t, 5433, cfg.Storage.Database.Port)
	assert.Equal(t, "mypassword", cfg.Storage.Database.Password)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "localhost:9000", cfg.MockServer.Address)
	assert.Equal(t, 4*time.Second, cfg.MockServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.MockServer.IdleTimeout)
	assert.Equal(t, 15, cfg.MockServer.TokenTTL)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
}

func TestMustLoadByPath_BackendURLFromEnv(t *testing.T) {
	os.Setenv("IMPNET_BACKEND_URL", "http://backend.impnet.local")
	defer os.Unsetenv("IMPNET_BACKEND_URL")

	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	_, err = tmpFile.WriteString("env: prod\n")
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())

	cfg := config.MustLoadByPath(tmpFile.Name())
	assert.Equal(t, "http://backend.impnet.local", cfg.API.BaseURL)
	// значения по умолчанию
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "auto_login", cfg.Session.RegisterMode)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}

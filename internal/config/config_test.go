package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "test-secret")
	t.Setenv("IDENTITY_PUBLIC_KEY_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sb-access-token", cfg.Identity.CookieName)
	assert.Equal(t, "authenticated", cfg.Identity.Audience)
	assert.Equal(t, "chat:inbound", cfg.Chat.Stream)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("LOG_CONSOLE", "true")
	t.Setenv("DB_NAME", "tenants")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.True(t, cfg.Log.Console)
	assert.Contains(t, cfg.Database.DSN(), "dbname=tenants")
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
}

func TestValidate_IdentityKeys(t *testing.T) {
	cfg := &Config{Chat: ChatConfig{Stream: "chat:inbound"}}
	assert.Error(t, cfg.Validate())

	cfg.Identity.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Identity.PublicKeyPath = "/keys/public.pem"
	assert.Error(t, cfg.Validate())
}

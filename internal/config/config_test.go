package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "auth")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "auth")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 30*time.Second, cfg.CodeTTL)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.RecoveryTTL)
	assert.Equal(t, 24*time.Hour, cfg.EmailValidationTTL)
	assert.True(t, cfg.SingleUseCodes)
	assert.Equal(t, MailTransportDirect, cfg.Mail.Transport)
	assert.Equal(t, "auth.mail", cfg.Mail.Queue)
	assert.False(t, cfg.Mail.UsePostmark())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CODE_TTL", "1m")
	t.Setenv("SINGLE_USE_CODES", "false")
	t.Setenv("MAIL_TRANSPORT", "queue")
	t.Setenv("POSTMARK_SERVER_TOKEN", "s")
	t.Setenv("POSTMARK_ACCOUNT_TOKEN", "a")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.CodeTTL)
	assert.False(t, cfg.SingleUseCodes)
	assert.Equal(t, MailTransportQueue, cfg.Mail.Transport)
	assert.True(t, cfg.Mail.UsePostmark())
	assert.Equal(t, "redis:6380", cfg.Redis.address())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadTransport(t *testing.T) {
	setRequired(t)
	t.Setenv("MAIL_TRANSPORT", "pigeon")
	_, err := Load()
	assert.ErrorContains(t, err, "MAIL_TRANSPORT")
}

func TestRateLimitConfig_Normalize(t *testing.T) {
	got := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second}.normalize()
	assert.Equal(t, 1, got.Capacity)
	assert.Equal(t, 1, got.RefillTokens)
	assert.Equal(t, time.Second, got.RefillInterval)
	assert.Equal(t, 5*time.Second, got.TTL)

	got = RateLimitConfig{Capacity: 10, Burst: 3, RefillTokens: 5, RefillInterval: time.Second, RefillEvery: 2 * time.Second, TTL: time.Hour}.normalize()
	assert.Equal(t, 3, got.Capacity)
	assert.Equal(t, 1, got.RefillTokens)
	assert.Equal(t, 2*time.Second, got.RefillInterval)
	assert.Equal(t, time.Hour, got.TTL)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	assert.Nil(t, NewRedisClient(RedisConfig{Addr: "127.0.0.1:1"}))
}

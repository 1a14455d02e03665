package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.AuthOptional)
	assert.Equal(t, 3, cfg.GuestDailyQuota)
	assert.Equal(t, 24*time.Hour, cfg.QuotaWindow)
	assert.Equal(t, QuotaKeyIdentity, cfg.QuotaKeyPolicy)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, cfg.TransformTimeout)
	assert.Equal(t, 3*time.Second, cfg.SinkTimeout)
	assert.Zero(t, cfg.RevocationTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ROOMALCHEMY_ADDR", ":9090")
	t.Setenv("AUTH_OPTIONAL", "true")
	t.Setenv("GUEST_DAILY_QUOTA", "10")
	t.Setenv("GUEST_QUOTA_KEY_POLICY", "address")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REVOCATION_TTL", "48h")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.AuthOptional)
	assert.Equal(t, 10, cfg.GuestDailyQuota)
	assert.Equal(t, QuotaKeyAddress, cfg.QuotaKeyPolicy)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 48*time.Hour, cfg.RevocationTTL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GUEST_DAILY_QUOTA", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	t.Setenv("GUEST_QUOTA_KEY_POLICY", "round-robin")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.GuestDailyQuota)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, QuotaKeyIdentity, cfg.QuotaKeyPolicy)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientReadsPrefixedSections(t *testing.T) {
	t.Setenv("API_URL", "https://ads.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_RULE_TYPES_TTL", "1h")
	t.Setenv("SESSION_FILE", "/tmp/session.yaml")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "https://ads.example.com", cfg.API.URL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Cache.UseRedis())
	assert.Equal(t, time.Hour, cfg.Cache.RuleTypesTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ListTTL)
	assert.Equal(t, "/tmp/session.yaml", cfg.Session.File)
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.False(t, cfg.Psql.Enabled)
	assert.Equal(t, "@every 1m", cfg.Jobs.CompleteSpec)
	assert.Equal(t, "demo", cfg.Auth.Tenant)
}

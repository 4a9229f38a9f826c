package config_test

import (
	"testing"

	"github.com/placora/backend/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "placora", cfg.AppName)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, 24, cfg.Auth.TokenExpiration)
	assert.Equal(t, 1, cfg.Auth.PasswordResetTTL)
	assert.Equal(t, "Bearer", cfg.Auth.AuthScheme)
	assert.Equal(t, []string{"placora-api"}, cfg.Auth.Audience)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("SESSION_TTL_HOURS", "48")
	t.Setenv("JWT_AUDIENCE", "web, mobile")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "super-secret", cfg.GetSigningKey())
	assert.Equal(t, 48, cfg.GetTokenExpiration())
	assert.Equal(t, []string{"web", "mobile"}, cfg.GetAudience())
	assert.False(t, cfg.Metrics.Enabled)
}

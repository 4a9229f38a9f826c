package store_test

import (
	"testing"
	"time"

	"github.com/placora/backend/store"
	"github.com/stretchr/testify/assert"
)

func TestConfigGetters(t *testing.T) {
	cfg := store.Config{
		Debug:                 true,
		DSN:                   "file:test.db?mode=memory",
		PingTimeoutExpression: "30s",
	}

	assert.True(t, cfg.GetDebug())
	assert.Equal(t, "file:test.db?mode=memory", cfg.GetDSN())
	assert.Equal(t, 30*time.Second, cfg.GetPingTimeout())
}

func TestConfigPingTimeoutFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, store.Config{}.GetPingTimeout())
	assert.Equal(t, 5*time.Second, store.Config{PingTimeoutExpression: "nonsense"}.GetPingTimeout())
}

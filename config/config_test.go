package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk/attendance-engine/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "attendance.db", cfg.StorePath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.AppendTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("STORE_BACKEND", "sheet")
	t.Setenv("STORE_PATH", "/tmp/controle.csv")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg := config.FromEnv()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "sheet", cfg.StoreBackend)
	assert.Equal(t, "/tmp/controle.csv", cfg.StorePath)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestFromEnv_BadInt_FallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := config.FromEnv()

	assert.Equal(t, 8080, cfg.Port)
}

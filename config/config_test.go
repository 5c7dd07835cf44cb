package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Matching.AmountTolerance)
	assert.Equal(t, 80, cfg.Matching.HighThreshold)
	assert.Equal(t, 50, cfg.Matching.MediumThreshold)
	assert.True(t, cfg.Matching.PaymentIndexCache)
	assert.Equal(t, 24*time.Hour, cfg.Redis.KeyTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30, cfg.Import.RateLimit)
	assert.Equal(t, time.Minute, cfg.Import.RateWindow)
	assert.Equal(t, 5, cfg.Database.ConnectAttempts)
	assert.Equal(t, time.Second, cfg.Database.ConnectBackoff)
	assert.False(t, cfg.Database.LogSQL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MATCH_AMOUNT_TOLERANCE", "0.02")
	t.Setenv("MATCH_HIGH_THRESHOLD", "90")
	t.Setenv("MATCH_PAYMENT_INDEX_CACHE", "false")
	t.Setenv("IMPORT_MAX_BATCH_SIZE", "10")
	t.Setenv("REDIS_KEY_TTL", "90m")
	// Unparseable values fall back to the default.
	t.Setenv("SERVER_PORT", "http")

	cfg := Load()

	assert.Equal(t, 0.02, cfg.Matching.AmountTolerance)
	assert.Equal(t, 90, cfg.Matching.HighThreshold)
	assert.False(t, cfg.Matching.PaymentIndexCache)
	assert.Equal(t, 10, cfg.Import.MaxBatchSize)
	assert.Equal(t, 90*time.Minute, cfg.Redis.KeyTTL)
	assert.Equal(t, 8080, cfg.Server.Port)
}

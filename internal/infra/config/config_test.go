package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/temporada?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, -20.3387, cfg.RegionLat)
	assert.Equal(t, -44.0544, cfg.RegionLng)
	assert.Equal(t, "reservation.handoff", cfg.HandoffTopic)
	assert.Equal(t, 30*time.Second, cfg.DetailCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://db/x")
	t.Setenv("CATALOG_PAGE_SIZE", "24")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("DETAIL_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Minute, cfg.DetailCacheTTL)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://db/x")

	t.Setenv("CATALOG_PAGE_SIZE", "zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CATALOG_PAGE_SIZE", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("REGION_LAT", "not-a-number")
	_, err = Load()
	assert.Error(t, err)
}

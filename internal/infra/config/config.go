package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env            string
	HTTPAddr       string
	PostgresDSN    string
	PageSize       int
	RegionLat      float64
	RegionLng      float64
	KafkaBrokers   []string
	HandoffTopic   string
	ConciergeID    string
	DetailCacheTTL time.Duration
}

// Load parses configuration from the current environment. Region defaults
// point at the Moeda-MG center used when a listing has no coordinates.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		HandoffTopic: getEnv("HANDOFF_TOPIC", "reservation.handoff"),
		ConciergeID:  os.Getenv("CONCIERGE_ID"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	pageSize, err := parseIntEnv("CATALOG_PAGE_SIZE", 12)
	if err != nil {
		return Config{}, err
	}
	cfg.PageSize = pageSize

	lat, err := parseFloatEnv("REGION_LAT", -20.3387)
	if err != nil {
		return Config{}, err
	}
	cfg.RegionLat = lat

	lng, err := parseFloatEnv("REGION_LNG", -44.0544)
	if err != nil {
		return Config{}, err
	}
	cfg.RegionLng = lng

	ttl, err := parseDurationEnv("DETAIL_CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.DetailCacheTTL = ttl

	if cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("CATALOG_PAGE_SIZE must be positive")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return f, nil
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	// PostgresDSN enables the audit journal; empty keeps it in memory.
	PostgresDSN string

	// RedisAddr enables the snapshot cache; empty keeps it in memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// RateLimit is the minimum interval between requests per client.
	RateLimit time.Duration

	// DemoSeed fills the directory with demonstration books on startup.
	DemoSeed bool
}

func Default() Config {
	return Config{
		HTTPAddr:  ":8080",
		CacheTTL:  5 * time.Minute,
		RateLimit: 100 * time.Millisecond,
	}
}

// Load reads configuration from a .env file (if present) and the
// environment. Priority: ENV > .env file > defaults.
func Load() Config {
	cfg := Default()

	_ = godotenv.Load()

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.RedisDB = n
		}
	}
	if ttl := os.Getenv("CACHE_TTL_MS"); ttl != "" {
		if ms, err := strconv.Atoi(ttl); err == nil {
			cfg.CacheTTL = time.Duration(ms) * time.Millisecond
		}
	}
	if limit := os.Getenv("RATE_LIMIT_MS"); limit != "" {
		if ms, err := strconv.Atoi(limit); err == nil {
			cfg.RateLimit = time.Duration(ms) * time.Millisecond
		}
	}
	if seed := os.Getenv("DEMO_SEED"); seed != "" {
		cfg.DemoSeed = seed == "true"
	}

	return cfg
}

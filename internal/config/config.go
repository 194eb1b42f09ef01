package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once at startup from the environment (.env merged by main).
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	RateLimitRPS   float64
	RateLimitBurst int

	ReconcileInterval time.Duration
	ReconcileBatch    int
}

func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),
		StatsCacheTTL: getduration("STATS_CACHE_TTL", 5*time.Minute),

		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogPath:       os.Getenv("LOG_PATH"),
		LogMaxSizeMB:  getint("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getint("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getint("LOG_MAX_AGE_DAYS", 7),

		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 20),

		ReconcileInterval: getduration("RECONCILE_INTERVAL", 10*time.Minute),
		ReconcileBatch:    getint("RECONCILE_BATCH", 100),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getfloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

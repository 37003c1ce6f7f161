package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	AuditDBPath string
	JWTSecret   string
	RedisAddr   string // Optional; empty means the in-process invalidation bus

	// Session lifecycle
	OTPTTL            time.Duration
	SessionTTL        time.Duration
	InactivityTimeout time.Duration
	JanitorInterval   time.Duration

	// Density estimator tuning
	DensityMinSamples  int
	DensityMaxSamples  int
	DensityTickChance  float64
	DensityTickEvery   time.Duration
	DefaultRadiusMeter float64

	// Communication channel
	MessageBacklog int

	// Rate limiting for the auth endpoints
	RateLimit       int
	RateLimitWindow time.Duration

	SeedSampleData bool
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        envString("PORT", ":8080"),
		AuditDBPath: envString("AUDIT_DB_PATH", "./data/audit/audit.db"),
		JWTSecret:   envString("JWT_SECRET", "your-secret-key-change-in-production"),
		RedisAddr:   envString("REDIS_ADDR", ""),

		OTPTTL:            envDuration("OTP_TTL", 10*time.Minute),
		SessionTTL:        envDuration("SESSION_TTL", 12*time.Hour),
		InactivityTimeout: envDuration("INACTIVITY_TIMEOUT", 30*time.Minute),
		JanitorInterval:   envDuration("SESSION_JANITOR_INTERVAL", time.Minute),

		DensityMinSamples:  envInt("DENSITY_MIN_SAMPLES", 15),
		DensityMaxSamples:  envInt("DENSITY_MAX_SAMPLES", 25),
		DensityTickChance:  envFloat("DENSITY_TICK_CHANCE", 0.3),
		DensityTickEvery:   envDuration("DENSITY_TICK_INTERVAL", 30*time.Second),
		DefaultRadiusMeter: envFloat("DENSITY_DEFAULT_RADIUS", 1000),

		MessageBacklog: envInt("MESSAGE_BACKLOG", 20),

		RateLimit:       envInt("RATE_LIMIT", 60),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),

		SeedSampleData: envBool("SEED_SAMPLE_DATA", true),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honoured in development via godotenv.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string

	// PostgresDSN selects the durable ledger; empty means in-memory stores
	// for development and tests, where the double-vote guard relies on the
	// memory store's lock instead of a database constraint.
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig

	// TallyCacheTTL bounds staleness of cached tallies. Mid-election tallies
	// are advisory, so a few seconds of lag is acceptable.
	TallyCacheTTL time.Duration

	// StatusSyncInterval is how often the derived election status is persisted
	// for display. Voting-window checks never read the persisted value.
	StatusSyncInterval time.Duration
}

// RedisConfig configures the optional tally cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional ballot event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv loads configuration from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	// Missing .env is fine; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Addr:          envOr("UNIVOTE_ADDR", ":8080"),
		AdminToken:    os.Getenv("UNIVOTE_ADMIN_TOKEN"),
		JWTSigningKey: envOr("UNIVOTE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresDSN:   os.Getenv("UNIVOTE_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("UNIVOTE_REDIS_URL"),
			PoolSize:     envIntOr("UNIVOTE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("UNIVOTE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("UNIVOTE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("UNIVOTE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("UNIVOTE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Topic: envOr("UNIVOTE_KAFKA_TOPIC", "univote.ballot-events"),
		},
		TallyCacheTTL:      envDurationOr("UNIVOTE_TALLY_CACHE_TTL", 5*time.Second),
		StatusSyncInterval: envDurationOr("UNIVOTE_STATUS_SYNC_INTERVAL", time.Minute),
	}

	if brokers := os.Getenv("UNIVOTE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitAndTrim(brokers)
	}

	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

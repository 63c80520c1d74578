// Package config assembles runtime configuration from environment variables
// so main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AuthDisabled  bool

	Oracle   Oracle
	Redis    Redis
	Postgres Postgres
	Kafka    Kafka

	ResultCacheTTL time.Duration
}

// Oracle configures the reasoning backend client.
type Oracle struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxConcurrent int64
}

// Redis configures the result cache connection. Empty URL disables redis.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Postgres configures the audit store. Empty DSN disables it.
type Postgres struct {
	DSN string
}

// Kafka configures the audit publisher. Empty broker list disables it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("AUTHSCRIPT_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "authscript"),
		JWTAudience:   envOr("JWT_AUDIENCE", "authscript-api"),
		AuthDisabled:  os.Getenv("AUTH_DISABLED") == "true",

		Oracle: Oracle{
			APIKey:        os.Getenv("LLM_API_KEY"),
			BaseURL:       os.Getenv("LLM_BASE_URL"),
			Model:         envOr("LLM_MODEL", "gpt-4o-mini"),
			Timeout:       envDuration("LLM_TIMEOUT", 30*time.Second),
			MaxConcurrent: envInt64("LLM_MAX_CONCURRENT", 4),
		},

		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		Postgres: Postgres{
			DSN: os.Getenv("POSTGRES_DSN"),
		},

		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "authscript.audit"),
		},

		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", time.Hour),
	}
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
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

func splitNonEmpty(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

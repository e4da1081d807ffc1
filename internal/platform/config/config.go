// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honored in development; real deployments set
// the variables directly.
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
	DatabaseURL   string
	JWTSigningKey string
	TokenTTL      time.Duration

	Redis RedisConfig
	Kafka KafkaConfig
	Media MediaConfig
}

// RedisConfig controls the optional view-marker cache. An empty URL
// disables it; view dedup then relies on cookies and the database alone.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig controls the optional domain-event publisher. No brokers
// means events stay on the in-process sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MediaConfig holds the credentials used to sign direct-to-host uploads.
type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// FromEnv assembles a Config from environment variables.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          get("FOUNDRY_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: get("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      duration("TOKEN_TTL", 24*time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: split(os.Getenv("KAFKA_BROKERS")),
			Topic:   get("KAFKA_EVENTS_TOPIC", "foundry.events"),
		},
		Media: MediaConfig{
			CloudName: os.Getenv("MEDIA_CLOUD_NAME"),
			APIKey:    os.Getenv("MEDIA_API_KEY"),
			APISecret: os.Getenv("MEDIA_API_SECRET"),
		},
	}
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func split(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

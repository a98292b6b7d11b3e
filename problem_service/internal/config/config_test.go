package config

import (
	"testing"
	"time"
)

func TestConfigInit_EmptyValues(t *testing.T) {
	for _, key := range []string{"KAFKA_BROKERS", "CACHE_TTL", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := ConfigInit()
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers for empty list, got %v", cfg.KafkaBrokers)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected fallback ttl, got %s", cfg.CacheTTL)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected redis db 0, got %d", cfg.RedisDB)
	}
}

func TestConfigInit_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "admin")
	t.Setenv("DB_NAME", "problems")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := ConfigInit()
	if cfg.HTTPPort != "9000" {
		t.Fatalf("unexpected http port: %s", cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected ttl: %s", cfg.CacheTTL)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("unexpected redis db: %d", cfg.RedisDB)
	}

	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}

	want := "host=db port=5432 user=postgres password=admin dbname=problems sslmode=disable"
	if cfg.DSN() != want {
		t.Fatalf("unexpected dsn: %s", cfg.DSN())
	}
}

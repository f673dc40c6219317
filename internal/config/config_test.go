package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.DBPath != "burger.db" {
		t.Fatalf("expected default DB path, got %q", cfg.DBPath)
	}
	if cfg.DefaultLLM != "openai" {
		t.Fatalf("expected default provider openai, got %q", cfg.DefaultLLM)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("expected events disabled by default, got %q", cfg.NATSURL)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Fatalf("expected 1m rate window, got %v", cfg.RateLimitWindow)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("DEFAULT_LLM", "anthropic")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.DBPath != ":memory:" {
		t.Fatalf("expected :memory:, got %q", cfg.DBPath)
	}
	if cfg.DefaultLLM != "anthropic" {
		t.Fatalf("expected anthropic, got %q", cfg.DefaultLLM)
	}
	if cfg.RateLimitRequests != 10 {
		t.Fatalf("expected 10 requests, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("expected 30s window, got %v", cfg.RateLimitWindow)
	}
	if !cfg.TracingEnabled {
		t.Fatal("expected tracing enabled")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	t.Setenv("TRACING_ENABLED", "sim")

	cfg := Load()

	if cfg.RateLimitRequests != 60 {
		t.Fatalf("expected default 60, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Fatalf("expected default 1m, got %v", cfg.RateLimitWindow)
	}
	if cfg.TracingEnabled {
		t.Fatal("expected tracing disabled")
	}
}

package config

import (
	"testing"

	"github.com/webharvest/loader-http-service/common/firecrawl"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Listen.Addr() != "127.0.0.1:8080" {
		t.Errorf("Expected default listen address, got %s", cfg.Listen.Addr())
	}
	if cfg.Firecrawl.APIURL != firecrawl.DefaultAPIURL {
		t.Errorf("Expected default API URL, got %s", cfg.Firecrawl.APIURL)
	}
	if cfg.Firecrawl.APIKey != "" {
		t.Errorf("Expected empty default API key, got %s", cfg.Firecrawl.APIKey)
	}
	if cfg.Nats.URL() != "nats://localhost:4222" {
		t.Errorf("Expected default NATS URL, got %s", cfg.Nats.URL())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "fc-test")
	t.Setenv("FIRECRAWL_API_URL", "http://firecrawl.internal:3002")
	t.Setenv("LISTEN_PORT", "9090")
	t.Setenv("POSTGRES_DB_NAME", "loader_test")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.Firecrawl.APIKey != "fc-test" {
		t.Errorf("Expected API key from env, got %q", cfg.Firecrawl.APIKey)
	}
	if cfg.Firecrawl.APIURL != "http://firecrawl.internal:3002" {
		t.Errorf("Expected API URL from env, got %q", cfg.Firecrawl.APIURL)
	}
	if cfg.Listen.Port != 9090 {
		t.Errorf("Expected port from env, got %d", cfg.Listen.Port)
	}
	if cfg.PgSql.Database != "loader_test" {
		t.Errorf("Expected database from env, got %q", cfg.PgSql.Database)
	}
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("LISTEN_PORT", "not-a-port")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.Listen.Port != 8080 {
		t.Errorf("Expected default port to survive invalid env value, got %d", cfg.Listen.Port)
	}
}

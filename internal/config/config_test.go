package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/source"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bestofjs.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DataURL != source.DefaultURL {
		t.Errorf("DataURL = %q, want %q", cfg.DataURL, source.DefaultURL)
	}
	if cfg.Timeout.Duration != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.Cache != CacheFile {
		t.Errorf("Cache = %q, want %q", cfg.Cache, CacheFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
data_url = "https://example.com/projects.json"
timeout = "3s"
cache = "redis"
cache_ttl = "30m"
log_level = "debug"

[redis]
addr = "localhost:6379"
db = 2

[server]
addr = ":9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataURL != "https://example.com/projects.json" {
		t.Errorf("DataURL = %q", cfg.DataURL)
	}
	if cfg.Timeout.Duration != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.CacheTTL.Duration != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `timeout = "3s"`)
	t.Setenv("BESTOFJS_TIMEOUT", "7s")
	t.Setenv("BESTOFJS_CACHE", "none")
	t.Setenv("BESTOFJS_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timeout.Duration != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", cfg.Timeout)
	}
	if cfg.Cache != CacheNone {
		t.Errorf("Cache = %q, want none", cfg.Cache)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `colour = "blue"`},
		{"bad duration", `timeout = "soon"`},
		{"bad toml", `timeout = `},
		{"unknown cache", `cache = "memcached"`},
		{"redis without addr", `cache = "redis"`},
		{"zero timeout", `timeout = "0s"`},
		{"bad url", `data_url = "ftp://example.com"`},
		{"bad log level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BESTOFJS_DATA_URL":   "http://localhost:3000/projects.json",
		"BESTOFJS_CACHE_TTL":  "5m",
		"BESTOFJS_REDIS_ADDR": "redis:6379",
		"BESTOFJS_LOG_LEVEL":  "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.DataURL != env["BESTOFJS_DATA_URL"] {
		t.Errorf("DataURL = %q", cfg.DataURL)
	}
	if cfg.CacheTTL.Duration != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.LogLevel != "warn" {
		t.Errorf("Redis.Addr, LogLevel = %q, %q", cfg.Redis.Addr, cfg.LogLevel)
	}

	env["BESTOFJS_TIMEOUT"] = "later"
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ApplyEnv(bad timeout) error = %v, want INVALID_CONFIG", err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.APIPort)
	}
	if cfg.CacheTTLSeconds != 300 || cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg)
	}
	if !cfg.DemoMode {
		t.Fatalf("demo mode must default on")
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("DEMO_MODE", "false")
	t.Setenv("SEARCH_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9999" || cfg.DemoMode || cfg.SearchLimit != 25 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheTTLSeconds != 300 {
		t.Fatalf("invalid int must keep the default, got %d", cfg.CacheTTLSeconds)
	}
}

func TestLoadYAMLOverlayThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_port: \"7000\"\nchunk_size: 500\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 500 {
		t.Fatalf("yaml overlay not applied, chunk_size=%d", cfg.ChunkSize)
	}
	if cfg.APIPort != "7100" {
		t.Fatalf("env must win over file, got %s", cfg.APIPort)
	}
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

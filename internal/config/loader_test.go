package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesAndReadsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Addr != ":4200" {
		t.Errorf("Addr = %q, want :4200", cfg.Addr)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9999\"\njwt_secret: \"file-secret\"\nallowed_origins:\n  - example.com\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("JWTSecret = %q, want file-secret", cfg.JWTSecret)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestSecretRequiredInProduction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("environment: production\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := Load(nil, path); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}

func TestSecretFallbackInDevelopment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected development fallback secret, got empty")
	}
}

package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromValidFile(t *testing.T) {
	tmp := t.TempDir()

	configYAML := `
addr: 127.0.0.1:9000
env: prod
publicDir: ./assets
allowedOrigin: https://example.com
debugHeaders: true
debugLogs: true
minifyHTML: true
compress: true
`
	configPath := filepath.Join(tmp, "greet.config.yml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("expected Addr '127.0.0.1:9000', got %q", cfg.Addr)
	}
	if !cfg.IsProd() {
		t.Errorf("expected prod env, got %q", cfg.Env)
	}
	if cfg.PublicDir != "./assets" {
		t.Errorf("expected PublicDir './assets', got %q", cfg.PublicDir)
	}
	if cfg.AllowedOrigin != "https://example.com" {
		t.Errorf("unexpected AllowedOrigin %q", cfg.AllowedOrigin)
	}
	if !cfg.DebugHeaders || !cfg.DebugLogs || !cfg.MinifyHTML || !cfg.Compress {
		t.Errorf("expected all booleans true, got %+v", cfg)
	}
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Addr != "0.0.0.0:8000" {
		t.Errorf("expected default Addr, got %q", cfg.Addr)
	}
	if cfg.AllowedOrigin != "http://localhost:3000" {
		t.Errorf("expected default origin, got %q", cfg.AllowedOrigin)
	}
}

func TestLoadConfigDefaultsWhenFieldsEmpty(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "greet.config.yml")
	if err := os.WriteFile(configPath, []byte("compress: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Addr != DefaultAddr || cfg.Env != DefaultEnv || cfg.PublicDir != DefaultPublicDir {
		t.Errorf("expected fallback values, got %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "greet.config.yml")
	if err := os.WriteFile(configPath, []byte("addr: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadConfigRejectsUnknownEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "greet.config.yml")
	if err := os.WriteFile(configPath, []byte("env: staging\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("expected a validation error for env staging")
	}
}

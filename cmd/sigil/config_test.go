package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server_address: 0.0.0.0:9090\nlog_level: debug\nlog_format: json\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfigFrom(path)
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}
	if cfg.ServerAddress != "0.0.0.0:9090" {
		t.Errorf("ServerAddress = %q, want %q", cfg.ServerAddress, "0.0.0.0:9090")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
}

func TestLoadConfigFromMissing(t *testing.T) {
	_, err := loadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_address: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfigFrom(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadConfigFromEmptyPath(t *testing.T) {
	if _, err := loadConfigFrom(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

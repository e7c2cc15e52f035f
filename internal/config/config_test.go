package config

import (
	"strings"
	"testing"
)

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CVDESK_SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing session secret")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("CVDESK_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short session secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	t.Setenv("CVDESK_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for known weak secret")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CVDESK_SESSION_SECRET", "Xk9!mP2vQw8rT5yU3iO7aS1dF4gH6jKl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.DBPath != "./data/cvdesk.db" {
		t.Errorf("DBPath = %q; want default", cfg.DBPath)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d; want 8080", cfg.ServerPort)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnopqrstuvwxyz", false},
		{"abcABC", false},
		{"abcABC123", true},
		{"abc123!@#", true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v; want %v", tt.secret, got, tt.want)
		}
	}
}

package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/zimmet")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.FormBucket != "zimmet-forms" {
		t.Errorf("FormBucket = %q, want zimmet-forms", cfg.FormBucket)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %s, want 60s", cfg.RequestTimeout)
	}
	if cfg.PresignTTL != 15*time.Minute {
		t.Errorf("PresignTTL = %s, want 15m", cfg.PresignTTL)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	// t.Setenv restores the previous value; the unset makes the variable
	// genuinely absent for this test.
	t.Setenv("DB_DSN", "placeholder")
	_ = os.Unsetenv("DB_DSN")

	if _, err := Load(context.Background()); err == nil {
		t.Error("expected error when DB_DSN is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/zimmet")
	t.Setenv("ADDR", ":9999")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FORM_PRESIGN_TTL", "5m")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.PresignTTL != 5*time.Minute {
		t.Errorf("PresignTTL = %s, want 5m", cfg.PresignTTL)
	}
}

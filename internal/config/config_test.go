package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 7*24*time.Hour {
		t.Errorf("expected 168h expiry, got %v", cfg.JWTExpirationDur)
	}
	if cfg.CookieSecure {
		t.Error("expected insecure cookies by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/ledger.db")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBPath != "/tmp/ledger.db" {
		t.Errorf("unexpected db settings: %s %s", cfg.DBDriver, cfg.DBPath)
	}
	if cfg.JWTExpirationDur != 2*time.Hour {
		t.Errorf("expected 2h, got %v", cfg.JWTExpirationDur)
	}
	if !cfg.CookieSecure || !cfg.IsProduction() {
		t.Error("expected production with secure cookies")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTExpirationDur != 7*24*time.Hour {
		t.Errorf("expected fallback to 168h, got %v", cfg.JWTExpirationDur)
	}
}

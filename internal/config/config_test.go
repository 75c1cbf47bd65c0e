package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("APP_PORT", "")
	t.Setenv("ADMIN_TELEGRAM_IDS", "")

	cfg := Load()
	if cfg.AppPort != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.AppPort)
	}
	if cfg.APIRateLimit != 30 || cfg.AuthRateLimit != 5 {
		t.Fatalf("unexpected rate limit defaults: %d %d", cfg.APIRateLimit, cfg.AuthRateLimit)
	}
}

func TestLoad_AdminIDs(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_IDS", "123, 456,bogus,789")

	cfg := Load()
	want := []int64{123, 456, 789}
	if len(cfg.AdminTelegramIDs) != len(want) {
		t.Fatalf("admin ids = %v, want %v", cfg.AdminTelegramIDs, want)
	}
	for i, id := range want {
		if cfg.AdminTelegramIDs[i] != id {
			t.Fatalf("admin ids = %v, want %v", cfg.AdminTelegramIDs, want)
		}
	}

	if !cfg.IsAdmin(456) {
		t.Fatal("expected 456 to be admin")
	}
	if cfg.IsAdmin(999) {
		t.Fatal("expected 999 to not be admin")
	}
}

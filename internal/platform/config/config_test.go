package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 32))

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv err=%v", err)
	}
	if cfg.Port != "8080" || cfg.StorageBackend != StorageMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 24*time.Hour || !cfg.Session.CookieSecure || cfg.Session.Issuer != "member-portal" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout=%v", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 40))
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv err=%v", err)
	}
	if cfg.Port != "9090" || cfg.Database.URL != "postgres://localhost/portal" || cfg.Database.MaxConns != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.CookieSecure {
		t.Fatalf("unexpected session cfg: %+v", cfg.Session)
	}
}

func TestLoadFromEnv_RejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")

	if _, err := LoadFromEnv(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("err=%v, want SESSION_SECRET error", err)
	}
}

func TestValidate_PostgresRequiresURL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		StorageBackend: StoragePostgres,
		Session:        SessionConfig{Secret: strings.Repeat("s", 32), Issuer: "x", TTL: time.Hour},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err=%v, want DATABASE_URL error", err)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := Config{
		StorageBackend: "sqlite",
		Session:        SessionConfig{Secret: strings.Repeat("s", 32), Issuer: "x", TTL: time.Hour},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidate_BootstrapPairing(t *testing.T) {
	t.Parallel()

	base := Config{
		StorageBackend: StorageMemory,
		Session:        SessionConfig{Secret: strings.Repeat("s", 32), Issuer: "x", TTL: time.Hour},
	}

	half := base
	half.Bootstrap = BootstrapConfig{AdminEmail: "admin@example.com"}
	if err := half.Validate(); err == nil || !strings.Contains(err.Error(), "BOOTSTRAP_ADMIN") {
		t.Fatalf("err=%v, want BOOTSTRAP_ADMIN error", err)
	}

	full := base
	full.Bootstrap = BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "password1"}
	if err := full.Validate(); err != nil || !full.Bootstrap.Enabled() {
		t.Fatalf("err=%v enabled=%v", err, full.Bootstrap.Enabled())
	}
}

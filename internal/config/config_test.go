package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "POSTGRES_DSN", "LOG_DIR", "LOG_DEBUG", "MIGRATE_ON_START", "DEFAULT_PAGE_SIZE", "CORS_ALLOW_ORIGIN", "CORS_ALLOW_CREDENTIALS", "QUERY_STRING_PATTERN"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.Pagination.DefaultPage != 1 || cfg.Pagination.DefaultSize != 10 {
		t.Fatalf("unexpected pagination defaults: %+v", cfg.Pagination)
	}
	if cfg.CORS.AllowOrigin != "*" || cfg.CORS.AllowCredentials {
		t.Fatalf("unexpected cors defaults: %+v", cfg.CORS)
	}
	if cfg.MigrateOnStart || cfg.LogDebug {
		t.Fatalf("flags should default to false: %+v", cfg)
	}
	if cfg.Query.StringPattern != "" {
		t.Fatalf("string pattern should default to empty, got %q", cfg.Query.StringPattern)
	}
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	for _, k := range []string{"PORT", "DEFAULT_PAGE_SIZE", "MIGRATE_ON_START", "LOG_DEBUG", "QUERY_STRING_PATTERN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("PORT", "9090")

	env := filepath.Join(t.TempDir(), "test.env")
	body := "PORT=7070\nDEFAULT_PAGE_SIZE=25\nMIGRATE_ON_START=true\nLOG_DEBUG=maybe\nQUERY_STRING_PATTERN='^[a-z ]+$'\n"
	if err := os.WriteFile(env, []byte(body), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg := LoadConfig(env)
	if cfg.Port != "9090" {
		t.Fatalf("process env must win over .env, got %q", cfg.Port)
	}
	if cfg.Pagination.DefaultSize != 25 {
		t.Fatalf("unexpected page size %d", cfg.Pagination.DefaultSize)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected MIGRATE_ON_START from .env")
	}
	if cfg.LogDebug {
		t.Fatalf("invalid bool must fall back to false")
	}
	if cfg.Query.StringPattern != "^[a-z ]+$" {
		t.Fatalf("unexpected string pattern %q", cfg.Query.StringPattern)
	}
}

func TestGetEnvInt64_RejectsNonPositive(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "0")
	if got := getEnvInt64("DEFAULT_PAGE_SIZE", 10); got != 10 {
		t.Fatalf("expected fallback, got %d", got)
	}
	t.Setenv("DEFAULT_PAGE_SIZE", "abc")
	if got := getEnvInt64("DEFAULT_PAGE_SIZE", 10); got != 10 {
		t.Fatalf("expected fallback, got %d", got)
	}
}

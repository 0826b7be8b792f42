package config

import (
	"strings"
	"testing"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", validSecret)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTS_DIR", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Database.URL != "jokehub.sqlite" {
		t.Errorf("Database.URL = %q, want jokehub.sqlite", cfg.Database.URL)
	}
	if cfg.Posts.Dir != "posts" {
		t.Errorf("Posts.Dir = %q, want posts", cfg.Posts.Dir)
	}
	if !cfg.Session.Secure {
		t.Error("Session.Secure should default to true")
	}
	if cfg.Session.Secret != validSecret {
		t.Error("Session.Secret not loaded from environment")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %q/%q, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() without SESSION_SECRET expected an error")
	}
	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestLoadShortSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_SECRET", "tooshort")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a short secret expected an error")
	}
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "/data/app.sqlite")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %q, want :9999", cfg.HTTP.Addr)
	}
	if cfg.Database.URL != "/data/app.sqlite" {
		t.Errorf("Database.URL = %q, want /data/app.sqlite", cfg.Database.URL)
	}
	if cfg.Session.Secure {
		t.Error("COOKIE_SECURE=false not honored")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging overrides = %q/%q, want debug/console", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadBadCookieSecure(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("COOKIE_SECURE", "maybe")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with invalid COOKIE_SECURE expected an error")
	}
}

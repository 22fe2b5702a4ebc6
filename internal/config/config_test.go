package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DINOPAGE_SERVER_GIN_MODE", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Database.Path != "data/dinopage.db" {
		t.Fatalf("expected default database path, got %q", cfg.Database.Path)
	}
	if cfg.Cache.SiteTTL != 5*time.Minute {
		t.Fatalf("expected site ttl 5m, got %s", cfg.Cache.SiteTTL)
	}
	if cfg.Auth.LoginWindow != 15*time.Minute {
		t.Fatalf("expected login window 15m, got %s", cfg.Auth.LoginWindow)
	}
	if cfg.Vercel.Configured() {
		t.Fatal("expected vercel to be unconfigured by default")
	}
	if cfg.Session.Secret != DefaultSessionSecret {
		t.Fatalf("expected development session secret, got %q", cfg.Session.Secret)
	}
}

func TestLoadRejectsDefaultSecretInRelease(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load(""); !errors.Is(err, ErrDefaultSessionSecret) {
		t.Fatalf("expected ErrDefaultSessionSecret, got %v", err)
	}

	t.Setenv("DINOPAGE_SESSION_SECRET", "a-real-production-secret")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.GinMode != "release" {
		t.Fatalf("expected release mode by default, got %q", cfg.Server.GinMode)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DINOPAGE_SESSION_SECRET", "environment-session-secret")
	t.Setenv("DINOPAGE_DATABASE_PATH", "/tmp/site.db")
	t.Setenv("DINOPAGE_LOG_LEVEL", "DEBUG")
	t.Setenv("DINOPAGE_VERCEL_TOKEN", "token")
	t.Setenv("DINOPAGE_VERCEL_PROJECT_ID", "prj_123")
	t.Setenv("DINOPAGE_UPLOAD_URL_PATH", "/media/")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Path != "/tmp/site.db" {
		t.Fatalf("expected env database path, got %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected normalized log level, got %q", cfg.Log.Level)
	}
	if !cfg.Vercel.Configured() {
		t.Fatal("expected vercel to be configured from env")
	}
	if cfg.Upload.URLPath != "/media" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Upload.URLPath)
	}
}

func TestLoadReadsConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "custom.yaml")
	content := []byte("server:\n  listen_addr: \":9000\"\nsession:\n  secret: \"file-session-secret-123\"\nsite:\n  base_url: \"https://example.com/\"\n")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(file, WithOverride("server.listen_addr", ":9100"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ListenAddr != ":9100" {
		t.Fatalf("expected override to win, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Site.BaseURL != "https://example.com" {
		t.Fatalf("expected base url from file, got %q", cfg.Site.BaseURL)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "short session secret", key: "DINOPAGE_SESSION_SECRET", val: "short"},
		{name: "unknown log level", key: "DINOPAGE_LOG_LEVEL", val: "verbose"},
		{name: "bad gin mode", key: "DINOPAGE_SERVER_GIN_MODE", val: "prod"},
		{name: "bad admin email", key: "DINOPAGE_ADMIN_EMAIL", val: "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("DINOPAGE_SESSION_SECRET", "valid-session-secret-123")
			t.Setenv(tt.key, tt.val)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected validation error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "OFFICE_OPS_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "todo")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("OFFICE_OPS_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("OFFICE_OPS_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Configuration {
		return &Configuration{
			RateLimit:        RateLimitOptions{GlobalRPS: 10, Storage: "memory"},
			Authz:            AuthzOptions{Mode: "Enforce"},
			Uploads:          UploadOptions{MaxEvidenceFiles: 5},
			BusinessTimezone: "Asia/Jakarta",
		}
	}

	c := base()
	if err := c.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Authz.Mode != "enforce" {
		t.Fatalf("expected normalized authz mode, got %q", c.Authz.Mode)
	}
	if c.Location().String() != "Asia/Jakarta" {
		t.Fatalf("expected Asia/Jakarta location, got %s", c.Location())
	}

	c = base()
	c.BusinessTimezone = "Mars/Olympus"
	if err := c.validate(); err == nil {
		t.Fatal("expected invalid timezone error")
	}

	c = base()
	c.RateLimit.Storage = "redis"
	if err := c.validate(); err == nil {
		t.Fatal("expected missing redis url error")
	}

	c = base()
	c.Uploads.MaxEvidenceFiles = 0
	if err := c.validate(); err == nil {
		t.Fatal("expected evidence limit error")
	}
}

func TestCorsOriginList(t *testing.T) {
	c := &Configuration{CorsOrigins: " http://a.test , ,http://b.test"}
	got := c.CorsOriginList()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", got)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir moves into an empty directory so no stray .env or config file is read.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "data/signup.db" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.HashWorkers < 1 {
		t.Errorf("expected at least one hash worker, got %d", cfg.Auth.HashWorkers)
	}
	if cfg.Register.RedactHash {
		t.Error("redaction should be off by default")
	}
	if cfg.Form.APIURL != "http://127.0.0.1:8080" {
		t.Errorf("unexpected form api url %q", cfg.Form.APIURL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t)
	t.Setenv("SIGNUP_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("SIGNUP_DATABASE_DRIVER", "MEMORY")
	t.Setenv("SIGNUP_REGISTER_REDACTHASH", "true")
	t.Setenv("SIGNUP_AUTH_HASHWORKERS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("unexpected driver %q", cfg.Database.Driver)
	}
	if !cfg.Register.RedactHash {
		t.Error("expected redaction to be enabled")
	}
	if cfg.Auth.HashWorkers != 3 {
		t.Errorf("expected 3 hash workers, got %d", cfg.Auth.HashWorkers)
	}
	if cfg.Form.APIURL != "http://127.0.0.1:9090" {
		t.Errorf("form api url should follow server addr, got %q", cfg.Form.APIURL)
	}
}

func TestLoadFormURLOverride(t *testing.T) {
	chdir(t)
	t.Setenv("SIGNUP_SERVER_ADDR", ":9090")
	t.Setenv("SIGNUP_FORM_APIURL", "http://signup.internal:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Form.APIURL != "http://signup.internal:8000" {
		t.Fatalf("explicit form api url should win, got %q", cfg.Form.APIURL)
	}
}

func TestLocalURL(t *testing.T) {
	cases := map[string]string{
		"0.0.0.0:8080":     "http://127.0.0.1:8080",
		":9090":            "http://127.0.0.1:9090",
		"[::]:7000":        "http://127.0.0.1:7000",
		"192.168.1.5:7000": "http://192.168.1.5:7000",
		"localhost:3000":   "http://localhost:3000",
		"[::1]:8080":       "http://[::1]:8080",
	}
	for addr, want := range cases {
		got, err := LocalURL(addr)
		if err != nil {
			t.Errorf("%s: unexpected error %v", addr, err)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", addr, want, got)
		}
	}

	if _, err := LocalURL("8080"); err == nil {
		t.Error("expected error for an address without a port separator")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	chdir(t)
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte("SIGNUP_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SIGNUP_LOG_LEVEL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected level from .env, got %q", cfg.Log.Level)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t)
	t.Setenv("SIGNUP_DATABASE_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadPostgresNeedsURL(t *testing.T) {
	chdir(t)
	t.Setenv("SIGNUP_DATABASE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without database url")
	}
}

func TestLoadClientSkipsStoreChecks(t *testing.T) {
	chdir(t)
	t.Setenv("SIGNUP_DATABASE_DRIVER", "postgres")
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte("SIGNUP_SERVER_ADDR=:9191\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SIGNUP_SERVER_ADDR") })

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient returned error: %v", err)
	}
	if cfg.Form.APIURL != "http://127.0.0.1:9191" {
		t.Fatalf("expected api url from .env server addr, got %q", cfg.Form.APIURL)
	}
}

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  addr: ":9090"
  read_timeout: 10s
database:
  dsn: ":memory:"
cache:
  max_size: 500
  invalidate_on_write: true
  warm_on_start: true
cors:
  allowed_origins: ["http://localhost:3000"]
trains:
  - name: A1
    times: ["8:00 AM", "9:15 AM"]
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.DSN != ":memory:" {
		t.Errorf("dsn = %q, want %q", cfg.Database.DSN, ":memory:")
	}
	if cfg.Cache.MaxSize != 500 || !cfg.Cache.InvalidateOnWrite || !cfg.Cache.WarmOnStart {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if !slices.Equal(cfg.CORS.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	if len(cfg.Trains) != 1 {
		t.Fatalf("trains count = %d, want 1", len(cfg.Trains))
	}
	if cfg.Trains[0].Name != "A1" || len(cfg.Trains[0].Times) != 2 {
		t.Errorf("train = %+v", cfg.Trains[0])
	}
}

func TestExpandEnv(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv
	t.Setenv("TRAINYARD_TEST_DSN", "/var/lib/trainyard/prod.db")

	cfg, err := Load(writeConfig(t, "database:\n  dsn: ${TRAINYARD_TEST_DSN}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.DSN != "/var/lib/trainyard/prod.db" {
		t.Errorf("dsn = %q, want expanded env value", cfg.Database.DSN)
	}

	// Unset variables are left verbatim.
	if got := string(expandEnv([]byte("dsn: ${TRAINYARD_UNSET_VAR}"))); got != "dsn: ${TRAINYARD_UNSET_VAR}" {
		t.Errorf("expandEnv = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.DSN != "trainyard.db" {
		t.Errorf("default dsn = %q, want %q", cfg.Database.DSN, "trainyard.db")
	}
	if cfg.Cache.MaxSize != 0 || cfg.Cache.InvalidateOnWrite {
		t.Errorf("default cache = %+v, want unbounded without invalidation", cfg.Cache)
	}
	if !slices.Equal(cfg.CORS.AllowedOrigins, []string{"*"}) {
		t.Errorf("default origins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("malformed yaml should fail")
	}
	if _, err := Load(writeConfig(t, "cache:\n  max_size: -5\n")); err == nil {
		t.Error("negative max_size should fail")
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"trainyard", "version"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "trainyard "+version {
		t.Errorf("output = %q", got)
	}
}

func TestMigrateCommand(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "trainyard.yaml")
	body := "database:\n  dsn: " + filepath.Join(dir, "test.db") + "\ntrains:\n  - name: A1\n    times: [\"08:00\"]\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	app := newApp()
	if err := app.Run(context.Background(), []string{"trainyard", "--config", cfgPath, "migrate"}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestMigrateCommand_MissingConfig(t *testing.T) {
	t.Parallel()
	app := newApp()
	err := app.Run(context.Background(), []string{"trainyard", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "migrate"})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidDatabasePath verifies run fails hard when the primary
// database cannot be opened.
func TestRun_InvalidDatabasePath(t *testing.T) {
	t.Setenv("SQLITE_EXPLORER_CONFIG", filepath.Join(t.TempDir(), "no-config.yaml"))
	t.Setenv("SQLITE_EXPLORER_DATABASE_PATH",
		filepath.Join(t.TempDir(), "no", "such", "dir", "db.sqlite"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail when the database path is unreachable")
	}
}

// TestRun_MalformedConfig verifies run fails when the config file cannot
// be parsed.
func TestRun_MalformedConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "database: [not: a mapping")
	t.Setenv("SQLITE_EXPLORER_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with malformed config")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("SQLITE_EXPLORER_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("SQLITE_EXPLORER_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

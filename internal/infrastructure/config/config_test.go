package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
  busy_timeout: 10
logging:
  level: "debug"
  format: "text"
  output: "stderr"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.Database.BusyTimeout != 10 {
		t.Errorf("Database.BusyTimeout = %d, want 10", cfg.Database.BusyTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults for missing file", err)
	}

	if !strings.HasSuffix(cfg.Database.Path, DefaultDatabaseFile) {
		t.Errorf("Database.Path = %q, want default ending in %q", cfg.Database.Path, DefaultDatabaseFile)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Logging.Output = %q, want %q (stdout carries the protocol)", cfg.Logging.Output, "stderr")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SQLITE_EXPLORER_DATABASE_PATH", "/tmp/env-override.db")
	t.Setenv("SQLITE_EXPLORER_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env-override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestLoad_LegacyDBPathAlias(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/legacy.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/legacy.db" {
		t.Errorf("Database.Path = %q, want DB_PATH alias honoured", cfg.Database.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/app.db", BusyTimeout: 5},
				Logging:  LoggingConfig{Level: "info", Format: "json", Output: "stderr"},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			config: &Config{
				Database: DatabaseConfig{BusyTimeout: 5},
				Logging:  LoggingConfig{Level: "info", Format: "json"},
			},
			wantErr: true,
		},
		{
			name: "negative busy timeout",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/app.db", BusyTimeout: -1},
				Logging:  LoggingConfig{Level: "info", Format: "json"},
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/app.db"},
				Logging:  LoggingConfig{Level: "verbose", Format: "json"},
			},
			wantErr: true,
		},
		{
			name: "unknown log format",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/app.db"},
				Logging:  LoggingConfig{Level: "info", Format: "xml"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ACTIVITIES_LISTEN",
		"ACTIVITIES_LOG_LEVEL",
		"ACTIVITIES_SEED_FILE",
		"ACTIVITIES_JOURNAL_RETENTION_DAYS",
		"ACTIVITIES_JOURNAL_SWEEP",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACTIVITIES_DATA_DIR", t.TempDir())

	cfg := Load()
	if cfg.ListenAddr != "127.0.0.1:8000" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.JournalRetention != 30*24*time.Hour {
		t.Errorf("retention = %v", cfg.JournalRetention)
	}
	if cfg.JournalSweepSpec != "0 3 * * *" {
		t.Errorf("sweep spec = %q", cfg.JournalSweepSpec)
	}
}

func TestLoadWritesDefaultConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("ACTIVITIES_DATA_DIR", dir)

	Load()

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("default config is empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("ACTIVITIES_DATA_DIR", dir)

	content := `
listen = "0.0.0.0:9000"
log_level = "DEBUG"
seed_file = "/etc/activities/seed.toml"
journal_retention_days = 7
journal_sweep = "30 2 * * *"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.SeedPath != "/etc/activities/seed.toml" {
		t.Errorf("seed path = %q", cfg.SeedPath)
	}
	if cfg.JournalRetention != 7*24*time.Hour {
		t.Errorf("retention = %v", cfg.JournalRetention)
	}
	if cfg.JournalSweepSpec != "30 2 * * *" {
		t.Errorf("sweep spec = %q", cfg.JournalSweepSpec)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("ACTIVITIES_DATA_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`listen = "0.0.0.0:9000"`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTIVITIES_LISTEN", "127.0.0.1:4321")
	t.Setenv("ACTIVITIES_JOURNAL_RETENTION_DAYS", "3")

	cfg := Load()
	if cfg.ListenAddr != "127.0.0.1:4321" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.JournalRetention != 3*24*time.Hour {
		t.Errorf("retention = %v", cfg.JournalRetention)
	}
}

func TestInvalidRetentionIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACTIVITIES_DATA_DIR", t.TempDir())
	t.Setenv("ACTIVITIES_JOURNAL_RETENTION_DAYS", "not-a-number")

	cfg := Load()
	if cfg.JournalRetention != 30*24*time.Hour {
		t.Errorf("retention = %v, want default", cfg.JournalRetention)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ListenAddr       string
	DataDir          string
	LogLevel         string
	SeedPath         string
	JournalRetention time.Duration
	JournalSweepSpec string
}

const (
	defaultListenAddr    = "127.0.0.1:8000"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30
	defaultSweepSpec     = "0 3 * * *"
)

const defaultConfigContent = `# Activities server configuration
# All values shown are defaults. Uncomment and edit to customize.

# Address and port the server listens on.
# Environment variable: ACTIVITIES_LISTEN
# listen = "127.0.0.1:8000"

# Log level: debug, info, warn, error.
# Environment variable: ACTIVITIES_LOG_LEVEL
# log_level = "info"

# Optional TOML file with the activity dataset served at startup.
# When unset, the built-in school dataset is used.
# Environment variable: ACTIVITIES_SEED_FILE
# seed_file = ""

# Days of signup journal history to keep.
# Environment variable: ACTIVITIES_JOURNAL_RETENTION_DAYS
# journal_retention_days = 30

# Cron schedule for the journal retention sweep.
# Environment variable: ACTIVITIES_JOURNAL_SWEEP
# journal_sweep = "0 3 * * *"
`

type fileConfig struct {
	Listen               string `toml:"listen"`
	LogLevel             string `toml:"log_level"`
	SeedFile             string `toml:"seed_file"`
	JournalRetentionDays int    `toml:"journal_retention_days"`
	JournalSweep         string `toml:"journal_sweep"`
}

// Load resolves configuration with env > file > default precedence. A
// commented default config file is written on first run.
func Load() Config {
	cfg := Config{
		ListenAddr:       defaultListenAddr,
		LogLevel:         defaultLogLevel,
		JournalRetention: defaultRetentionDays * 24 * time.Hour,
		JournalSweepSpec: defaultSweepSpec,
	}

	// Resolve DataDir first (needed for config file path).
	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_DATA_DIR")); v != "" {
		cfg.DataDir = v
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.DataDir = filepath.Join(home, ".activities")
	}

	configPath := filepath.Join(cfg.DataDir, "config.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		writeDefaultConfig(configPath)
	}

	var file fileConfig
	_, _ = toml.DecodeFile(configPath, &file) // missing or invalid file keeps defaults

	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_LISTEN")); v != "" {
		cfg.ListenAddr = v
	} else if file.Listen != "" {
		cfg.ListenAddr = file.Listen
	}

	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	} else if file.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(file.LogLevel)
	}

	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_SEED_FILE")); v != "" {
		cfg.SeedPath = v
	} else if file.SeedFile != "" {
		cfg.SeedPath = file.SeedFile
	}

	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_JOURNAL_RETENTION_DAYS")); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.JournalRetention = time.Duration(days) * 24 * time.Hour
		}
	} else if file.JournalRetentionDays > 0 {
		cfg.JournalRetention = time.Duration(file.JournalRetentionDays) * 24 * time.Hour
	}

	if v := strings.TrimSpace(os.Getenv("ACTIVITIES_JOURNAL_SWEEP")); v != "" {
		cfg.JournalSweepSpec = v
	} else if file.JournalSweep != "" {
		cfg.JournalSweepSpec = file.JournalSweep
	}

	return cfg
}

// writeDefaultConfig creates the config file with commented-out defaults.
// Best-effort: errors are silently ignored.
func writeDefaultConfig(path string) {
	_ = os.MkdirAll(filepath.Dir(path), 0o700)
	_ = os.WriteFile(path, []byte(defaultConfigContent), 0o600)
}

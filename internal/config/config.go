// Package config loads optional settings from a .env file, mirroring the
// teacher's analytics.LoadEnvFile convention: a per-user dotfile under
// the home directory holds settings a CLI flag can still override.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Settings holds the optional environment-sourced configuration.
// Every field has a workable zero value; cobra flags take precedence
// over whatever Load populates.
type Settings struct {
	Workers        int    // Phase 0 worker pool size; 0 means "use the default"
	PostHogKey     string // opt-in telemetry write key
	MCPBindAddr    string // address the MCP server listens on, when not stdio
	IndexCachePath string // sqlite path for the persistent index-run cache
	DisableMetrics bool
	InstallID      string // anonymous per-install distinct id for analytics
}

const envFileName = ".env"

// envDir returns ~/.semindex, creating it if it doesn't exist.
func envDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".semindex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads ~/.semindex/.env (creating one holding a fresh install_id
// on first run) and returns the resulting Settings. Settings come from
// the process environment, which the file's values supplement but never
// override; InstallID comes from the file itself. Load never returns an
// error: an unreadable file leaves Settings to the environment alone,
// and a home directory that cannot be used yields the zero-value
// Settings — env configuration is always optional.
func Load() Settings {
	dir, err := envDir()
	if err != nil {
		return Settings{}
	}
	path := filepath.Join(dir, envFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = godotenv.Write(map[string]string{"install_id": uuid.New().String()}, path)
	}
	_ = godotenv.Load(path)
	fileVals, _ := godotenv.Read(path)

	workers, _ := strconv.Atoi(os.Getenv("SEMINDEX_WORKERS"))
	disableMetrics, _ := strconv.ParseBool(os.Getenv("SEMINDEX_DISABLE_METRICS"))

	return Settings{
		Workers:        workers,
		PostHogKey:     os.Getenv("SEMINDEX_POSTHOG_KEY"),
		MCPBindAddr:    os.Getenv("SEMINDEX_MCP_ADDR"),
		IndexCachePath: os.Getenv("SEMINDEX_INDEX_CACHE"),
		DisableMetrics: disableMetrics,
		InstallID:      fileVals["install_id"],
	}
}

// DefaultIndexCachePath returns ~/.semindex/index-cache.db, used when
// Settings.IndexCachePath is empty.
func DefaultIndexCachePath() string {
	dir, err := envDir()
	if err != nil {
		return "index-cache.db"
	}
	return filepath.Join(dir, "index-cache.db")
}

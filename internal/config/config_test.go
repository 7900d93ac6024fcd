package config

import (
	"os"
	"testing"
)

func TestLoadMissingEnvFileYieldsZeroValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SEMINDEX_WORKERS", "")
	t.Setenv("SEMINDEX_POSTHOG_KEY", "")
	t.Setenv("SEMINDEX_MCP_ADDR", "")
	t.Setenv("SEMINDEX_DISABLE_METRICS", "")

	s := Load()

	if s.Workers != 0 || s.PostHogKey != "" || s.MCPBindAddr != "" || s.DisableMetrics {
		t.Errorf("expected zero-value settings, got %+v", s)
	}
	if _, err := os.Stat(home + "/.semindex/.env"); err != nil {
		t.Errorf("expected .env file to be created: %v", err)
	}
}

func TestLoadReadsEnvVars(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SEMINDEX_WORKERS", "8")
	t.Setenv("SEMINDEX_DISABLE_METRICS", "true")

	s := Load()

	if s.Workers != 8 {
		t.Errorf("Workers: got %d, want 8", s.Workers)
	}
	if !s.DisableMetrics {
		t.Error("expected DisableMetrics to be true")
	}
}

func TestLoadGeneratesStableInstallID(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	first := Load()
	if first.InstallID == "" {
		t.Fatal("expected a generated InstallID")
	}

	os.Unsetenv("install_id")
	second := Load()
	if second.InstallID != first.InstallID {
		t.Errorf("InstallID changed across loads: %q vs %q", first.InstallID, second.InstallID)
	}
}

func TestDefaultIndexCachePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := DefaultIndexCachePath()
	if path == "" {
		t.Error("expected non-empty default cache path")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/moat/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MOAT_LOG_LEVEL", "MOAT_LOG_FILE", "MOAT_CATALOG", "MOAT_STYLE", "MOAT_SOUND"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		LogLevel: "normal",
		LogFile:  ".moat-logs/moat.log",
		Style:    "auto",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != logger.LevelNormal {
		t.Fatalf("expected normal level, got %s", cfg.Level())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MOAT_LOG_LEVEL", "verbose")
	t.Setenv("MOAT_LOG_FILE", "stderr")
	t.Setenv("MOAT_CATALOG", "/tmp/catalog.yaml")
	t.Setenv("MOAT_STYLE", "notty")
	t.Setenv("MOAT_SOUND", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		LogLevel:    "verbose",
		LogFile:     "stderr",
		CatalogPath: "/tmp/catalog.yaml",
		Style:       "notty",
		Sound:       true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	os.Unsetenv("MOAT_STYLE")
	t.Cleanup(func() { os.Unsetenv("MOAT_STYLE") })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MOAT_STYLE=light\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style != "light" {
		t.Fatalf("expected style from .env, got %q", cfg.Style)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"MOAT_LOG_LEVEL", "shouting", "MOAT_LOG_LEVEL"},
		{"MOAT_STYLE", "neon", "MOAT_STYLE"},
		{"MOAT_SOUND", "maybe", "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

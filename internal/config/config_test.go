package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", cfg.Weeks)
	}
	if cfg.Out != DefaultOutputFile {
		t.Errorf("Out = %q, want %q", cfg.Out, DefaultOutputFile)
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q, want primary", cfg.CalendarID)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{Weeks: -1}
	cfg.Normalize()

	if cfg.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", cfg.Weeks)
	}
	if cfg.Out == "" || cfg.CalendarID == "" || cfg.TokenFile == "" {
		t.Errorf("Normalize left empty fields: %+v", cfg)
	}
}

func TestOutputPathRedirectsUnderActions(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("GITHUB_ACTIONS", "true")
	if got, want := cfg.OutputPath(), filepath.Join("public", DefaultOutputFile); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}

	// An explicit output path is left alone even in CI.
	cfg.Out = "custom.ics"
	if got := cfg.OutputPath(); got != "custom.ics" {
		t.Errorf("OutputPath() = %q, want custom.ics", got)
	}

	t.Setenv("GITHUB_ACTIONS", "")
	cfg.Out = DefaultOutputFile
	if got := cfg.OutputPath(); got != DefaultOutputFile {
		t.Errorf("OutputPath() = %q, want %q", got, DefaultOutputFile)
	}
}

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", cfg.Weeks)
	}
}

func TestLoadCreatesFirstRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", cfg.Weeks)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := DefaultConfig()
	want.Weeks = 4
	want.Push = true
	want.CalendarID = "family@group.calendar.google.com"
	want.Cron = "0 6 * * *"

	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Weeks != 4 || !got.Push || got.CalendarID != want.CalendarID || got.Cron != want.Cron {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

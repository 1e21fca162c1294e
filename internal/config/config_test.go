package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollEnabled {
		t.Fatal("PollEnabled = true, want polling off by default")
	}
	if cfg.PollIntervalMS != defaultPollIntervalMS {
		t.Fatalf("PollIntervalMS = %d, want %d", cfg.PollIntervalMS, defaultPollIntervalMS)
	}
	if cfg.LogLevel != defaultLogLevel || cfg.MetricsAddr != defaultMetricsAddr {
		t.Fatalf("ambient defaults = %q/%q", cfg.LogLevel, cfg.MetricsAddr)
	}
	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "  10.0.0.5  "
user = " admin "
password = "pa ss"
poll = true
poll_interval_ms = 3000
log_file = "  ~/monarch/monarch.log  "
log_level = " DEBUG "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "10.0.0.5" || cfg.User != "admin" {
		t.Fatalf("Host/User = %q/%q", cfg.Host, cfg.User)
	}
	if cfg.Password != "pa ss" {
		t.Fatalf("Password = %q, want it untouched", cfg.Password)
	}
	if !cfg.PollEnabled || cfg.PollIntervalMS != 3000 {
		t.Fatalf("poll = %v/%d, want true/3000", cfg.PollEnabled, cfg.PollIntervalMS)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.MetricsAddr != defaultMetricsAddr {
		t.Fatalf("MetricsAddr = %q, want default", cfg.MetricsAddr)
	}
}

func TestLoad_AbsentIntervalKeepsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`host = "monarch.local"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollIntervalMS != defaultPollIntervalMS {
		t.Fatalf("PollIntervalMS = %d, want %d", cfg.PollIntervalMS, defaultPollIntervalMS)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`host = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestSave_RoundTripsAndRestrictsPermissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Host = "10.1.1.1"
	cfg.Password = "secret"
	cfg.PollEnabled = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestNormalize_ClampsNegativeInterval(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := Config{PollIntervalMS: -5}.Normalize()
	if cfg.PollIntervalMS != 0 {
		t.Fatalf("PollIntervalMS = %d, want 0", cfg.PollIntervalMS)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatal("Validate on empty host returned nil")
	}
	if err := (Config{Host: "10.0.0.1"}).Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}

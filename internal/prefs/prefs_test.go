package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/monarchctl/internal/feedback"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "monarchctl")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := `theme = "Slate"

[streaming_status]
expected = "READY"
bg = "#0000FF"
`
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
	if p.Streaming.Expected != "READY" || p.Streaming.Background != "#0000FF" {
		t.Fatalf("Streaming = %+v", p.Streaming)
	}
	// Keys absent from the file keep their defaults.
	if p.Streaming.Foreground != Default().Streaming.Foreground {
		t.Fatalf("Streaming.Foreground = %q, want default", p.Streaming.Foreground)
	}
	if p.Recording != Default().Recording {
		t.Fatalf("Recording = %+v, want default", p.Recording)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Default()
	p.Theme = "Slate"
	p.Recording.Expected = "READY"
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded != p {
		t.Fatalf("loaded = %+v, want %+v", loaded, p)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(prefsFile); p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(prefsFile); p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestRules_FillsBlanksFromFeedbackDefaults(t *testing.T) {
	p := Prefs{Recording: FeedbackPref{Expected: "ON"}}
	rules := p.Rules()
	if len(rules) != 2 {
		t.Fatalf("Rules() len = %d, want 2", len(rules))
	}
	rec, str := rules[0], rules[1]
	if rec.Kind != feedback.KindRecording || rec.Expected != "ON" {
		t.Fatalf("recording rule = %+v", rec)
	}
	if rec.Foreground != feedback.DefaultForeground || rec.Background != feedback.DefaultBackground {
		t.Fatalf("recording colours = %s/%s", rec.Foreground, rec.Background)
	}
	if str.Kind != feedback.KindStreaming || str.Expected != "N/A" {
		t.Fatalf("streaming rule = %+v", str)
	}

	p.Streaming = FeedbackPref{Expected: "READY", Foreground: "#000000", Background: "#FFFF00"}
	if got := p.Rules()[1]; got.Background != lipgloss.Color("#FFFF00") || got.Foreground != lipgloss.Color("#000000") {
		t.Fatalf("streaming rule = %+v", got)
	}
}

// Package prefs handles panel preference persistence.
// Preferences are stored in ~/.config/monarchctl/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/monarchctl/internal/config"
	"github.com/five82/monarchctl/internal/feedback"
)

// Prefs holds panel preferences.
type Prefs struct {
	Theme     string       `toml:"theme"`
	Recording FeedbackPref `toml:"recording_status"`
	Streaming FeedbackPref `toml:"streaming_status"`
}

// FeedbackPref is the persisted form of a feedback rule.
type FeedbackPref struct {
	Expected   string `toml:"expected"`
	Foreground string `toml:"fg"`
	Background string `toml:"bg"`
}

const (
	defaultPrefsPath = "~/.config/monarchctl/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns where preferences live when no path is given.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns preferences with the stock theme and panel rules: a tile
// lights up once its status reads ON.
func Default() Prefs {
	return Prefs{
		Theme:     defaultTheme,
		Recording: FeedbackPref{Expected: "ON", Foreground: "#FFFFFF", Background: "#DC3545"},
		Streaming: FeedbackPref{Expected: "ON", Foreground: "#FFFFFF", Background: "#2AA745"},
	}
}

// Rules returns the feedback rules the preferences describe.
func (p Prefs) Rules() []feedback.Rule {
	return []feedback.Rule{
		p.Recording.rule(feedback.KindRecording),
		p.Streaming.rule(feedback.KindStreaming),
	}
}

func (f FeedbackPref) rule(kind feedback.Kind) feedback.Rule {
	r := feedback.DefaultRule(kind)
	if v := strings.TrimSpace(f.Expected); v != "" {
		r.Expected = v
	}
	if v := strings.TrimSpace(f.Foreground); v != "" {
		r.Foreground = lipgloss.Color(v)
	}
	if v := strings.TrimSpace(f.Background); v != "" {
		r.Background = lipgloss.Color(v)
	}
	return r
}

// Load reads preferences from path. A missing or unreadable file yields the
// defaults; the panel never refuses to start over preferences.
func Load(path string) Prefs {
	p := Default()
	resolved, err := location(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	// Keys absent from the file keep their defaults.
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default()
	}
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p
}

// Save writes p to path, creating parent directories.
func Save(path string, p Prefs) error {
	resolved, err := location(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func location(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}

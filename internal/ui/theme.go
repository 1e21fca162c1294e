package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/monarchctl/internal/state"
)

// Theme defines colors for the panel.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Preset button colors.
	StartButton string
	StopButton  string
	ButtonText  string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	FaintText  lipgloss.Style
	AccentText lipgloss.Style
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Tile       lipgloss.Style
	Button     lipgloss.Style
	LogPane    lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)),

		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Tile: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SurfaceAlt)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(1, 2).
			Width(tileWidth),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.ButtonText)).
			Bold(true).
			Padding(1, 1).
			Width(buttonWidth).
			Align(lipgloss.Center),

		LogPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

// HealthColor returns the indicator color for a connection state.
func (t Theme) HealthColor(h state.Health) string {
	switch h {
	case state.HealthOK:
		return t.Success
	case state.HealthWarning:
		return t.Warning
	case state.HealthError:
		return t.Danger
	default:
		return t.Muted
	}
}

// LevelColor returns the color for a log level name.
func (t Theme) LevelColor(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error", "fatal", "panic":
		return t.Danger
	case "warn", "warning":
		return t.Warning
	case "info":
		return t.Info
	case "debug", "trace":
		return t.Faint
	default:
		return t.Text
	}
}

var themes = []Theme{
	{
		Name:        "Dracula",
		Background:  "#282a36",
		Surface:     "#343746",
		SurfaceAlt:  "#44475a",
		Border:      "#6272a4",
		BorderFocus: "#bd93f9",
		Text:        "#f8f8f2",
		Muted:       "#a4a8c4",
		Faint:       "#6272a4",
		Accent:      "#bd93f9",
		Success:     "#50fa7b",
		Warning:     "#f1fa8c",
		Danger:      "#ff5555",
		Info:        "#8be9fd",
		StartButton: "#2aa745",
		StopButton:  "#dc3545",
		ButtonText:  "#ffffff",
	},
	{
		Name:        "Slate",
		Background:  "#0f172a",
		Surface:     "#1e293b",
		SurfaceAlt:  "#334155",
		Border:      "#475569",
		BorderFocus: "#38bdf8",
		Text:        "#e2e8f0",
		Muted:       "#94a3b8",
		Faint:       "#64748b",
		Accent:      "#38bdf8",
		Success:     "#4ade80",
		Warning:     "#facc15",
		Danger:      "#f87171",
		Info:        "#7dd3fc",
		StartButton: "#2aa745",
		StopButton:  "#dc3545",
		ButtonText:  "#ffffff",
	},
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after current.
func NextTheme(current string) string {
	for i, t := range themes {
		if strings.EqualFold(t.Name, current) {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the panel.
type keyMap struct {
	Actions [6]key.Binding

	Left    key.Binding
	Right   key.Binding
	Press   key.Binding
	Refresh key.Binding
	Logs    key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	km := keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "Previous button"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "Next button"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Press button"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Poll status now"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log pane"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
	for i := range km.Actions {
		digit := string(rune('1' + i))
		km.Actions[i] = key.NewBinding(
			key.WithKeys(digit),
			key.WithHelp(digit, "Press button "+digit),
		)
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Refresh, k.Logs, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Actions[:],
		{k.Left, k.Right, k.Press},
		{k.Refresh, k.Logs, k.Theme, k.Help, k.Quit},
	}
}

// actionIndex returns the button a digit key addresses, or -1.
func (k keyMap) actionIndex(msg string) int {
	for i, b := range k.Actions {
		for _, kk := range b.Keys() {
			if kk == msg {
				return i
			}
		}
	}
	return -1
}

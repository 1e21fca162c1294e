// Package feedback evaluates colour rules against published device status.
package feedback

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/monarchctl/internal/state"
)

// Kind names a feedback rule type.
type Kind string

const (
	KindRecording Kind = "recording_status"
	KindStreaming Kind = "streaming_status"
)

// Default colours for a rule that has not picked its own.
const (
	DefaultForeground = lipgloss.Color("#FFFFFF")
	DefaultBackground = lipgloss.Color("#00FF00")
)

// Definition describes a feedback type to the host.
type Definition struct {
	Kind     Kind
	Label    string
	Option   string // label of the expected-status choice
	Choices  []string
	Variable string
}

var definitions = []Definition{
	{
		Kind:     KindRecording,
		Label:    "Change colors based on record status",
		Option:   "Record Status",
		Choices:  []string{"ON", "READY"},
		Variable: state.VarRecordStatus,
	},
	{
		Kind:     KindStreaming,
		Label:    "Change colors based on streaming status",
		Option:   "Streaming Status",
		Choices:  []string{"ON", "READY"},
		Variable: state.VarStreamStatus,
	},
}

// Definitions returns the feedback types in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	for i, d := range definitions {
		d.Choices = append([]string(nil), d.Choices...)
		out[i] = d
	}
	return out
}

// ParseKind resolves a feedback kind by name.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.TrimSpace(name))
	if k.Variable() == "" {
		return "", fmt.Errorf("unknown feedback %q", name)
	}
	return k, nil
}

// Variable returns the published variable a kind watches.
func (k Kind) Variable() string {
	switch k {
	case KindRecording:
		return state.VarRecordStatus
	case KindStreaming:
		return state.VarStreamStatus
	}
	return ""
}

// Rule is a configured feedback: when the watched variable equals Expected
// the host paints the button with Foreground/Background.
type Rule struct {
	Kind       Kind
	Expected   string
	Foreground lipgloss.Color
	Background lipgloss.Color
}

// DefaultRule returns the rule a freshly added feedback starts with.
func DefaultRule(k Kind) Rule {
	return Rule{
		Kind:       k,
		Expected:   state.NotApplicable,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// Override is the styling a matching rule applies.
type Override struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
}

// Style returns a lipgloss style carrying the override colours.
func (o Override) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(o.Foreground).Background(o.Background)
}

// Evaluate returns the rule's colours when the watched variable in snap
// equals the expected value exactly. Otherwise it reports no override and
// the host keeps its default styling.
func Evaluate(r Rule, snap state.Snapshot) (Override, bool) {
	value, ok := snap.Value(r.Kind.Variable())
	if !ok || value != r.Expected {
		return Override{}, false
	}
	return Override{Foreground: r.Foreground, Background: r.Background}, true
}

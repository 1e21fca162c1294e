package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/monarchctl/internal/feedback"
	"github.com/five82/monarchctl/internal/logtail"
	"github.com/five82/monarchctl/internal/state"
)

const (
	buttonWidth = 14
	tileWidth   = 30
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	sections := []string{
		m.renderHeader(),
		m.renderButtons(),
		m.renderTiles(),
		m.renderNotice(),
	}
	if m.showLogs {
		sections = append(sections, styles.LogPane.Render(m.logView.View()))
	}
	sections = append(sections, styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	host := m.host
	if host == "" {
		host = "no device configured"
	}
	indicator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.HealthColor(snap.Health))).
		Render("● " + healthLabel(snap))

	polled := "never polled"
	if !snap.LastPolled.IsZero() {
		polled = "polled " + snap.LastPolled.Format(time.TimeOnly)
	}

	left := styles.AccentText.Render("monarchctl") + "  " + styles.Text.Render(host)
	right := indicator + "  " + styles.MutedText.Render(polled)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(max(m.width, 0)).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderButtons() string {
	styles := m.theme.Styles()
	buttons := make([]string, 0, len(m.actions))
	for i, action := range m.actions {
		bg := m.theme.StopButton
		if action.Starts() {
			bg = m.theme.StartButton
		}
		st := styles.Button.Background(lipgloss.Color(bg))
		if i == m.selected {
			st = st.Underline(true).BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color(m.theme.BorderFocus))
		} else {
			st = st.BorderStyle(lipgloss.HiddenBorder())
		}
		label := fmt.Sprintf("%d\n%s", i+1, action.ShortLabel())
		buttons = append(buttons, st.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) renderTiles() string {
	tiles := make([]string, 0, len(m.rules))
	for _, rule := range m.rules {
		tiles = append(tiles, m.renderTile(rule))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m Model) renderTile(rule feedback.Rule) string {
	styles := m.theme.Styles()
	label := "Record"
	if rule.Kind == feedback.KindStreaming {
		label = "Stream"
	}
	value, _ := m.snapshot.Value(rule.Kind.Variable())

	st := styles.Tile
	if o, ok := feedback.Evaluate(rule, m.snapshot); ok {
		st = st.Foreground(o.Foreground).Background(o.Background)
	}
	return lipgloss.NewStyle().MarginRight(2).Render(
		st.Render(fmt.Sprintf("%s\n%s", label, lipgloss.NewStyle().Bold(true).Render(value))),
	)
}

func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	if m.notice == nil {
		if snap := m.snapshot; snap.LastError != nil && snap.IsOffline() {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Danger)).Padding(0, 1).
				Render(fmt.Sprintf("device offline: %v", snap.LastError))
		}
		return styles.FaintText.Padding(0, 1).Render(" ")
	}
	n := m.notice
	color := m.theme.Success
	text := fmt.Sprintf("%s: %s", n.Action.Label(), n.Outcome)
	if n.Attempts > 1 {
		text += fmt.Sprintf(" after %d attempts", n.Attempts)
	}
	if n.Err != nil {
		color = m.theme.Danger
		text += fmt.Sprintf(" (%v)", n.Err)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Padding(0, 1).Render(text)
}

func (m Model) renderLogLines(lines []logtail.Line) string {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line.Level == "" {
			b.WriteString(styles.Text.Render(line.Message))
			continue
		}
		levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(line.Level)))
		b.WriteString(styles.FaintText.Render(clock(line.Time)))
		b.WriteByte(' ')
		b.WriteString(levelStyle.Render(fmt.Sprintf("%-5s", strings.ToUpper(line.Level))))
		b.WriteByte(' ')
		b.WriteString(styles.Text.Render(line.Message))
		for _, f := range line.Fields {
			b.WriteByte(' ')
			b.WriteString(styles.MutedText.Render(f.Key + "=" + f.Value))
		}
	}
	return b.String()
}

// clock trims a logrus timestamp down to its time of day.
func clock(ts string) string {
	if _, after, ok := strings.Cut(ts, " "); ok {
		return after
	}
	return ts
}

func healthLabel(snap state.Snapshot) string {
	if snap.HealthMessage == "" {
		return snap.Health.String()
	}
	return snap.Health.String() + ": " + snap.HealthMessage
}

package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/monarchctl/internal/feedback"
	"github.com/five82/monarchctl/internal/logtail"
	"github.com/five82/monarchctl/internal/monarch"
	"github.com/five82/monarchctl/internal/prefs"
	"github.com/five82/monarchctl/internal/state"
)

const (
	defaultRefresh = 500 * time.Millisecond
	logTailLines   = 200
	noticeTTL      = 8 * time.Second
)

// Controller is the part of a control-surface instance the panel drives.
type Controller interface {
	Dispatch(ctx context.Context, action monarch.Action)
	PollOnce(ctx context.Context) error
}

// Notice reports the outcome of a dispatched action to the panel.
type Notice struct {
	Action   monarch.Action
	Outcome  string
	Attempts int
	Err      error
}

// Options configure the panel.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	Notices    <-chan Notice
	Host       string
	LogPath    string
	Prefs      prefs.Prefs
	PrefsPath  string
	Refresh    time.Duration
}

// Model is the root panel state for Bubble Tea.
type Model struct {
	ctx        context.Context
	controller Controller
	store      *state.Store
	notices    <-chan Notice
	host       string
	logPath    string
	prefs      prefs.Prefs
	prefsPath  string
	refresh    time.Duration

	actions []monarch.Action
	rules   []feedback.Rule

	keys    keyMap
	help    help.Model
	logView viewport.Model
	theme   Theme

	width    int
	height   int
	ready    bool
	showLogs bool
	selected int

	snapshot state.Snapshot
	notice   *Notice
	noticeAt time.Time
}

// New creates a panel model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:        ctx,
		controller: opts.Controller,
		store:      opts.Store,
		notices:    opts.Notices,
		host:       opts.Host,
		logPath:    opts.LogPath,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		refresh:    refresh,
		actions:    monarch.Actions(),
		rules:      opts.Prefs.Rules(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		theme:      GetTheme(opts.Prefs.Theme),
		showLogs:   opts.LogPath != "",
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.notices != nil {
		cmds = append(cmds, waitForNotice(m.notices))
	}
	if m.showLogs {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.logView = viewport.New(msg.Width, m.logHeight())
		}
		m.logView.Width = max(msg.Width-4, 10)
		m.logView.Height = m.logHeight()
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.showLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		if m.notice != nil && time.Since(m.noticeAt) > noticeTTL {
			m.notice = nil
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case noticeMsg:
		n := Notice(msg)
		m.notice = &n
		m.noticeAt = time.Now()
		return m, waitForNotice(m.notices)

	case logLinesMsg:
		atBottom := m.logView.AtBottom()
		m.logView.SetContent(m.renderLogLines(msg))
		if atBottom {
			m.logView.GotoBottom()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.logView.Height = m.logHeight()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.selected = (m.selected - 1 + len(m.actions)) % len(m.actions)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.selected = (m.selected + 1) % len(m.actions)
		return m, nil

	case key.Matches(msg, m.keys.Press):
		return m, m.press(m.selected)

	case key.Matches(msg, m.keys.Refresh):
		return m, pollCmd(m.ctx, m.controller, m.store)

	case key.Matches(msg, m.keys.Logs):
		if m.logPath == "" {
			return m, nil
		}
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, readLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		p := m.prefs
		path := m.prefsPath
		return m, func() tea.Msg {
			_ = prefs.Save(path, p)
			return nil
		}
	}

	if idx := m.keys.actionIndex(msg.String()); idx >= 0 && idx < len(m.actions) {
		m.selected = idx
		return m, m.press(idx)
	}
	return m, nil
}

func (m Model) press(idx int) tea.Cmd {
	if m.controller == nil || idx < 0 || idx >= len(m.actions) {
		return nil
	}
	ctx, ctrl, action := m.ctx, m.controller, m.actions[idx]
	return func() tea.Msg {
		ctrl.Dispatch(ctx, action)
		return nil
	}
}

func (m Model) logHeight() int {
	// header, buttons, tiles, notice and help take roughly this many rows.
	reserved := 17
	if m.help.ShowAll {
		reserved += 4
	}
	return max(m.height-reserved, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticeMsg Notice

type logLinesMsg []logtail.Line

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitForNotice(ch <-chan Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logLinesMsg{{Raw: err.Error(), Level: "error", Message: fmt.Sprintf("read log: %v", err)}}
		}
		return logLinesMsg(lines)
	}
}

func pollCmd(ctx context.Context, ctrl Controller, store *state.Store) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		_ = ctrl.PollOnce(ctx)
		if store == nil {
			return nil
		}
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}

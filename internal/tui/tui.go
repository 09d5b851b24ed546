package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/history"
	"github.com/strrl/tiking/pkg/models"
)

type viewMode int

const (
	timerView viewMode = iota
	historyView
	settingsView
)

var viewNames = []string{"Timer", "Stats", "Settings"}

const defaultTickInterval = 200 * time.Millisecond

// Options wires the TUI to an already constructed clock
type Options struct {
	Clock        *clock.Clock
	History      *history.Log
	Feed         *Feed
	TickInterval time.Duration
}

type model struct {
	clock    *clock.Clock
	history  *history.Log
	feed     *Feed
	interval time.Duration

	// tag of the live tick chain; last is the timestamp of the previous tick
	tag  int
	last time.Time

	currentMode  viewMode
	pickers      []picker
	pickerCursor int
	notice       string

	spinner  *Spinner
	progress progress.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	ready  bool
	width  int
	height int
}

func initialModel(opts Options) model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	durations := opts.Clock.Durations()

	return model{
		clock:    opts.Clock,
		history:  opts.History,
		feed:     opts.Feed,
		interval: interval,
		pickers: []picker{
			newFocusPicker(durations.FocusMinutes),
			newBreakPicker(durations.BreakMinutes),
		},
		spinner:  NewSpinner(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampInt(msg.Width-8, 10, 60)
		m.help.Width = msg.Width

		viewHeight := msg.Height - 6
		if viewHeight < 3 {
			viewHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewHeight
		}
		m.refreshHistory()
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.NextView) {
			m.switchView(1)
			return m, nil
		}
		if key.Matches(msg, m.keys.PrevView) {
			m.switchView(-1)
			return m, nil
		}

		switch m.currentMode {
		case timerView:
			return m.updateTimer(msg)
		case settingsView:
			return m.updateSettings(msg)
		case historyView:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// handleTick feeds the time since the previous tick into the clock and
// keeps the chain alive while the clock runs.
func (m model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.tag != m.tag || !m.clock.Running() {
		return m, nil
	}

	var delta time.Duration
	if !m.last.IsZero() {
		delta = msg.at.Sub(m.last)
	}
	m.last = msg.at

	before := m.history.Len()
	m.clock.Advance(delta)
	m.spinner.Next()
	if m.history.Len() != before {
		m.refreshHistory()
	}
	m.notice = m.feed.Notice()

	if !m.clock.Running() {
		return m, nil
	}
	return m, tickCmd(m.interval, m.tag)
}

func (m model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.toggle()
		return m, cmd
	case key.Matches(msg, m.keys.Reset):
		m.clock.Reset()
		m.tag++
		m.notice = ""
	}
	return m, nil
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.pickerCursor < len(m.pickers)-1 {
			m.pickerCursor++
		}
	case key.Matches(msg, m.keys.Less):
		m.applyPicker(-1)
	case key.Matches(msg, m.keys.More):
		m.applyPicker(1)
	}
	return m, nil
}

// toggle starts or pauses the clock. Any change bumps the tick tag so a
// tick already scheduled for the previous run cannot advance the clock.
func (m *model) toggle() tea.Cmd {
	m.clock.Toggle()
	m.tag++
	if !m.clock.Running() {
		m.notice = "Paused."
		return nil
	}
	m.notice = m.feed.Notice()
	m.last = time.Time{}
	return tickCmd(m.interval, m.tag)
}

func (m *model) applyPicker(direction int) {
	p := &m.pickers[m.pickerCursor]
	if !p.shift(direction) {
		return
	}
	if m.clock.SetTargetMinutes(p.phase, p.value) {
		m.tag++
		m.notice = fmt.Sprintf("%s set to %d min.", p.label(), p.value)
		return
	}
	m.notice = fmt.Sprintf("%s set to %d min, applies to the next %s.", p.label(), p.value, strings.ToLower(p.label()))
}

func (m *model) switchView(step int) {
	n := len(viewNames)
	m.currentMode = viewMode((int(m.currentMode) + step + n) % n)
	if m.currentMode == historyView {
		m.refreshHistory()
	}
}

func (m *model) refreshHistory() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var body string
	switch m.currentMode {
	case historyView:
		body = m.viewport.View()
	case settingsView:
		body = m.renderSettings()
	default:
		body = m.renderTimer()
	}

	return fmt.Sprintf("%s\n\n%s\n%s", m.renderHeader(), body, m.renderFooter())
}

func (m model) renderHeader() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if viewMode(i) == m.currentMode {
			tabs[i] = active.Render(name)
		} else {
			tabs[i] = inactive.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) renderTimer() string {
	snap := m.clock.Snapshot()

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	if snap.Phase == models.PhaseBreak {
		labelStyle = labelStyle.Foreground(lipgloss.Color("42"))
	}
	countdownStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)

	var s strings.Builder
	s.WriteString(statusIndicator(m.spinner, snap.Running) + " " + labelStyle.Render(snap.Phase.Label()) + "\n\n")
	s.WriteString(countdownStyle.Render(snap.Clock()) + "\n\n")
	s.WriteString(m.progress.ViewAs(snap.Ratio) + "\n")
	if m.notice != "" {
		s.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(s.String())
}

func (m model) renderHistory() string {
	entries := m.history.All()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Render("  No data yet. Start a session!")
	}

	today := history.Summarize(entries, history.StartOfDay(time.Now()))
	summaryStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	whenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	var s strings.Builder
	s.WriteString(summaryStyle.Render(fmt.Sprintf("  Today: %d focus sessions, %d min focused",
		today.FocusSessions, int(today.FocusTime/time.Minute))) + "\n\n")
	for _, e := range entries {
		title, when := history.Format(e)
		s.WriteString(fmt.Sprintf("  %-22s %s\n", title, whenStyle.Render(when)))
	}
	return s.String()
}

func (m model) renderSettings() string {
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)

	var s strings.Builder
	for i, p := range m.pickers {
		cursor := "  "
		style := valueStyle
		if i == m.pickerCursor {
			cursor = "> "
			style = cursorStyle
		}
		s.WriteString(fmt.Sprintf("%s%-6s %s\n", cursor, p.label(), style.Render(p.valueText())))
	}
	if m.notice != "" {
		s.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(s.String())
}

func (m model) renderFooter() string {
	return m.help.View(m.keys.forView(m.currentMode))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the interactive program and blocks until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(
		initialModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

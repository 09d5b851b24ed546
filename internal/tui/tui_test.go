package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/config"
	"github.com/strrl/tiking/internal/history"
	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/pkg/models"
)

func newTestModel(t *testing.T) (model, *config.Config) {
	t.Helper()
	store := kv.NewMemory()
	cfg := config.New(store, nil)
	log := history.Load(store)
	feed := NewFeed()
	c := clock.New(cfg, log, feed)

	m := initialModel(Options{Clock: c, History: log, Feed: feed, TickInterval: 50 * time.Millisecond})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model), cfg
}

func press(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(model), cmd
}

var (
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	resetKey = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	leftKey  = tea.KeyMsg{Type: tea.KeyLeft}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	quitKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

// TestModelInitialization tests the initial model setup
func TestModelInitialization(t *testing.T) {
	m, _ := newTestModel(t)

	if !m.ready {
		t.Error("Model should be ready after the first window size message")
	}
	if m.currentMode != timerView {
		t.Error("Initial view should be the timer")
	}
	if m.clock.Running() {
		t.Error("Clock should start idle")
	}
	if m.pickers[0].value != 25 || m.pickers[1].value != 5 {
		t.Errorf("Unexpected picker values %d/%d", m.pickers[0].value, m.pickers[1].value)
	}
	if !strings.Contains(m.View(), "25:00") {
		t.Error("Timer view should show 25:00")
	}
}

func TestSpaceStartsAndPauses(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(m, spaceKey)
	if !m.clock.Running() {
		t.Fatal("Space should start the clock")
	}
	if cmd == nil {
		t.Error("Starting should schedule a tick")
	}
	if m.notice != "Focus started." {
		t.Errorf("Unexpected notice %q", m.notice)
	}

	m, cmd = press(m, spaceKey)
	if m.clock.Running() {
		t.Error("Second space should pause the clock")
	}
	if cmd != nil {
		t.Error("Pausing should not schedule a tick")
	}
}

func TestTickAdvancesClock(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, spaceKey)

	start := time.Unix(1_700_000_000, 0)
	updated, cmd := m.Update(tickMsg{tag: m.tag, at: start})
	m = updated.(model)
	if m.clock.Elapsed() != 0 {
		t.Error("First tick of a run only sets the reference time")
	}
	if cmd == nil {
		t.Error("Running clock should keep ticking")
	}

	updated, _ = m.Update(tickMsg{tag: m.tag, at: start.Add(1500 * time.Millisecond)})
	m = updated.(model)
	if m.clock.Elapsed() != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s elapsed, got %v", m.clock.Elapsed())
	}
}

func TestStaleTickIgnoredAfterPause(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, spaceKey)
	staleTag := m.tag

	start := time.Unix(1_700_000_000, 0)
	updated, _ := m.Update(tickMsg{tag: staleTag, at: start})
	m = updated.(model)

	m, _ = press(m, spaceKey)
	m, _ = press(m, spaceKey)

	// A tick scheduled before the pause arrives after resuming.
	updated, _ = m.Update(tickMsg{tag: staleTag, at: start.Add(10 * time.Second)})
	m = updated.(model)
	if m.clock.Elapsed() != 0 {
		t.Errorf("Stale tick should not advance the clock, elapsed %v", m.clock.Elapsed())
	}
}

func TestTickCompletesFocus(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, spaceKey)

	start := time.Unix(1_700_000_000, 0)
	updated, _ := m.Update(tickMsg{tag: m.tag, at: start})
	m = updated.(model)
	updated, cmd := m.Update(tickMsg{tag: m.tag, at: start.Add(26 * time.Minute)})
	m = updated.(model)

	if m.clock.Phase() != models.PhaseBreak || !m.clock.Running() {
		t.Error("Completing focus should start the break")
	}
	if cmd == nil {
		t.Error("Break should keep ticking")
	}
	if m.history.Len() != 1 {
		t.Errorf("Expected one history entry, got %d", m.history.Len())
	}
	if m.notice != "Focus complete. Time for a break!" {
		t.Errorf("Unexpected notice %q", m.notice)
	}
}

func TestResetKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, spaceKey)
	tag := m.tag

	m, _ = press(m, resetKey)
	if m.clock.Running() {
		t.Error("Reset should stop the clock")
	}
	if m.tag == tag {
		t.Error("Reset should invalidate pending ticks")
	}
}

func TestViewSwitching(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, tabKey)
	if m.currentMode != historyView {
		t.Errorf("Expected history view, got %v", m.currentMode)
	}
	if !strings.Contains(m.View(), "No data yet") {
		t.Error("Empty history should show a placeholder")
	}

	m, _ = press(m, tabKey)
	if m.currentMode != settingsView {
		t.Errorf("Expected settings view, got %v", m.currentMode)
	}

	m, _ = press(m, tabKey)
	if m.currentMode != timerView {
		t.Error("Tab should wrap around to the timer")
	}

	// Space outside the timer view does nothing.
	m, _ = press(m, tabKey)
	m, _ = press(m, spaceKey)
	if m.clock.Running() {
		t.Error("Space should only toggle on the timer view")
	}
}

func TestSettingsPickerAppliesWhenIdle(t *testing.T) {
	m, cfg := newTestModel(t)
	m, _ = press(m, tabKey)
	m, _ = press(m, tabKey)

	m, _ = press(m, rightKey)
	if m.pickers[0].value != 30 {
		t.Errorf("Expected focus picker at 30, got %d", m.pickers[0].value)
	}
	if m.clock.Target() != 30*time.Minute {
		t.Errorf("Idle focus should apply immediately, target %v", m.clock.Target())
	}
	if got, ok := cfg.Minutes(models.PhaseFocus); !ok || got != 30 {
		t.Errorf("Expected stored focus 30, got %d (%v)", got, ok)
	}

	m, _ = press(m, downKey)
	m, _ = press(m, leftKey)
	if m.pickers[1].value != 5 {
		t.Error("Break picker should not go below its minimum")
	}
	m, _ = press(m, rightKey)
	if got, _ := cfg.Minutes(models.PhaseBreak); got != 10 {
		t.Errorf("Expected stored break 10, got %d", got)
	}
	if m.clock.Target() != 30*time.Minute {
		t.Error("Break change should not touch the focus countdown")
	}
	if !strings.Contains(m.notice, "next break") {
		t.Errorf("Unexpected notice %q", m.notice)
	}
}

func TestBreakPickerSnapsUnlistedValue(t *testing.T) {
	if p := newBreakPicker(7); p.value != 5 {
		t.Errorf("Expected 7 to show as 5, got %d", p.value)
	}
	if p := newFocusPicker(45); p.value != 45 {
		t.Errorf("Expected 45 to be kept, got %d", p.value)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, quitKey)
	if cmd == nil {
		t.Fatal("Quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected a quit message")
	}
}

// TestSpinner tests the spinner functionality
func TestSpinner(t *testing.T) {
	spinner := NewSpinner()

	firstFrame := spinner.View()
	if firstFrame == "" {
		t.Error("Spinner should have a frame")
	}

	for i := 0; i < 8; i++ {
		spinner.Next()
	}
	if spinner.View() != firstFrame {
		t.Error("Spinner should cycle back to first frame")
	}
}

func TestFeedNotice(t *testing.T) {
	f := NewFeed()
	if f.Notice() != "" {
		t.Error("Empty feed should have no notice")
	}
	f.Notify(clock.Event{Type: clock.EventPhaseCompleted, Phase: models.PhaseBreak})
	if f.Notice() != "Break over. Press space to focus." {
		t.Errorf("Unexpected notice %q", f.Notice())
	}
}

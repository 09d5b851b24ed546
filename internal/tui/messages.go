package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/pkg/models"
)

// tickMsg is one frame of the host tick source. tag identifies the run of
// ticks it belongs to; pausing or resetting bumps the model's tag so ticks
// already in flight are dropped.
type tickMsg struct {
	tag int
	at  time.Time
}

// tickCmd schedules the next frame
func tickCmd(interval time.Duration, tag int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{tag: tag, at: t}
	})
}

// Feed keeps the latest clock event for the status line. It is notified
// synchronously from inside Update, so it needs no locking.
type Feed struct {
	last clock.Event
	seen bool
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{}
}

func (f *Feed) Notify(e clock.Event) {
	f.last = e
	f.seen = true
}

// Notice describes the latest event, or "" before the first one
func (f *Feed) Notice() string {
	if f == nil || !f.seen {
		return ""
	}
	switch {
	case f.last.Type == clock.EventPhaseStarted && f.last.Phase == models.PhaseBreak:
		return "Focus complete. Time for a break!"
	case f.last.Type == clock.EventPhaseCompleted && f.last.Phase == models.PhaseBreak:
		return "Break over. Press space to focus."
	case f.last.Type == clock.EventPhaseStarted:
		return "Focus started."
	default:
		return ""
	}
}

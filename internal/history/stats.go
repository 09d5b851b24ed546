package history

import (
	"fmt"
	"time"

	"github.com/strrl/tiking/pkg/models"
)

// Summary totals completed sessions per phase
type Summary struct {
	FocusSessions int
	FocusTime     time.Duration
	BreakSessions int
	BreakTime     time.Duration
}

// Summarize totals the entries completed at or after since.
// A zero since includes everything.
func Summarize(entries []models.HistoryEntry, since time.Time) Summary {
	var s Summary
	for _, e := range entries {
		if !since.IsZero() && e.CompletedAt.Before(since) {
			continue
		}
		switch e.Phase {
		case models.PhaseFocus:
			s.FocusSessions++
			s.FocusTime += e.Duration
		case models.PhaseBreak:
			s.BreakSessions++
			s.BreakTime += e.Duration
		}
	}
	return s
}

// StartOfDay returns local midnight of t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Label returns the decorated phase name used in listings
func Label(phase models.Phase) string {
	if phase == models.PhaseBreak {
		return "☕ Break"
	}
	return "🔥 Focus"
}

// Format renders one entry as "🔥 Focus — 25 min" plus weekday and time
func Format(e models.HistoryEntry) (title, when string) {
	title = fmt.Sprintf("%s — %d min", Label(e.Phase), e.RoundedMinutes())
	when = e.CompletedAt.Local().Format("Mon 15:04")
	return title, when
}

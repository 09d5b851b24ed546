package clock

import (
	"fmt"
	"time"

	"github.com/strrl/tiking/pkg/models"
)

// EventType identifies what happened to a phase
type EventType string

const (
	EventPhaseStarted   EventType = "phase_started"
	EventPhaseCompleted EventType = "phase_completed"
)

// Event is delivered to the Sink at phase boundaries
type Event struct {
	Type     EventType
	Phase    models.Phase
	Duration time.Duration
	// RunID ties the start and completion of one phase run together
	RunID string
	At    time.Time
}

// Sink receives phase events. Implementations must not block and must not
// call back into the Clock.
type Sink interface {
	Notify(Event)
}

// Durations is where the configured phase lengths are read and written
type Durations interface {
	Minutes(phase models.Phase) (int, bool)
	SetMinutes(phase models.Phase, minutes int)
}

// Recorder receives completed sessions
type Recorder interface {
	Append(entry models.HistoryEntry)
}

// Snapshot is a read-only view of the timer for renderers
type Snapshot struct {
	Phase   models.Phase
	Target  time.Duration
	Elapsed time.Duration
	Running bool
	RunID   string
	// RemainingSeconds is ceil(Target-Elapsed), never negative
	RemainingSeconds int
	// Ratio is Elapsed/Target clamped to [0, 1]
	Ratio float64
}

// Clock formats RemainingSeconds as MM:SS
func (s Snapshot) Clock() string {
	return FormatRemaining(s.RemainingSeconds)
}

// FormatRemaining renders whole seconds as zero-padded minutes and seconds
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

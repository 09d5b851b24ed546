package notify

import (
	"log/slog"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/logging"
	"github.com/strrl/tiking/pkg/models"
)

// Cue names an audible phase cue
type Cue string

const (
	CueFocusStart Cue = "focusStart"
	CueFocusEnd   Cue = "focusEnd"
	CueBreakStart Cue = "breakStart"
	CueBreakEnd   Cue = "breakEnd"
)

// CueFor maps a clock event to its cue
func CueFor(e clock.Event) Cue {
	switch {
	case e.Type == clock.EventPhaseStarted && e.Phase == models.PhaseBreak:
		return CueBreakStart
	case e.Type == clock.EventPhaseCompleted && e.Phase == models.PhaseBreak:
		return CueBreakEnd
	case e.Type == clock.EventPhaseCompleted:
		return CueFocusEnd
	default:
		return CueFocusStart
	}
}

// Func adapts a function to clock.Sink
type Func func(clock.Event)

func (f Func) Notify(e clock.Event) { f(e) }

// Multi fans an event out to every sink in order
type Multi []clock.Sink

func (m Multi) Notify(e clock.Event) {
	for _, s := range m {
		if s != nil {
			s.Notify(e)
		}
	}
}

// Safe shields the caller from a misbehaving sink
type Safe struct {
	Sink   clock.Sink
	Logger *slog.Logger
}

func (s Safe) Notify(e clock.Event) {
	if s.Sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger().Warn("notification failed", "cue", CueFor(e), "error", r)
		}
	}()
	s.Sink.Notify(e)
}

func (s Safe) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.Discard()
	}
	return s.Logger
}

// Log records every event at info level
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(e clock.Event) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("phase event",
		"type", e.Type,
		"phase", e.Phase,
		"duration", e.Duration,
		"run_id", e.RunID,
	)
}

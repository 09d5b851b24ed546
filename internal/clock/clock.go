package clock

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/strrl/tiking/internal/logging"
	"github.com/strrl/tiking/pkg/models"
)

// Bounds applied to user supplied durations
const (
	MinMinutes = 1
	MaxMinutes = 180
)

// Clock is the pomodoro state machine. It never schedules itself: the host
// owns the loop and feeds elapsed time through Advance.
//
// A Clock is not safe for concurrent use; every call must come from the
// goroutine that drives it.
type Clock struct {
	phase   models.Phase
	target  time.Duration
	elapsed time.Duration
	running bool
	runID   string

	// configured phase lengths, refreshed from durations at phase boundaries
	focus time.Duration
	brk   time.Duration

	durations Durations
	history   Recorder
	sink      Sink
	now       func() time.Time
	newRunID  func() string
	logger    *slog.Logger
}

// Option configures a Clock
type Option func(*Clock)

// WithNow replaces the wall clock used for history timestamps
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for phase transitions
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunIDs replaces the run ID generator
func WithRunIDs(next func() string) Option {
	return func(c *Clock) {
		if next != nil {
			c.newRunID = next
		}
	}
}

// New creates an idle Clock at the start of a focus phase.
// durations, history and sink may be nil.
func New(durations Durations, history Recorder, sink Sink, opts ...Option) *Clock {
	c := &Clock{
		phase:     models.PhaseFocus,
		durations: durations,
		history:   history,
		sink:      sink,
		now:       time.Now,
		newRunID:  uuid.NewString,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.focus = c.configured(models.PhaseFocus, minutes(models.DefaultFocusMinutes))
	c.brk = c.configured(models.PhaseBreak, minutes(models.DefaultBreakMinutes))
	c.target = c.focus
	c.runID = c.newRunID()
	return c
}

// Start begins or resumes the countdown. Starting a fresh focus phase
// announces it to the sink first. No-op while running.
func (c *Clock) Start() {
	if c.running {
		return
	}
	if c.phase == models.PhaseFocus && c.elapsed == 0 {
		c.emit(EventPhaseStarted, c.phase, c.target)
	}
	c.running = true
	c.logger.Debug("clock started", "phase", c.phase, "elapsed", c.elapsed, "run_id", c.runID)
}

// Pause stops the countdown keeping elapsed time. No-op while idle.
func (c *Clock) Pause() {
	if !c.running {
		return
	}
	c.running = false
	c.logger.Debug("clock paused", "phase", c.phase, "elapsed", c.elapsed, "run_id", c.runID)
}

// Toggle starts an idle clock or pauses a running one
func (c *Clock) Toggle() {
	if c.running {
		c.Pause()
		return
	}
	c.Start()
}

// Reset stops the clock and rewinds the current phase. Phase and target
// are kept.
func (c *Clock) Reset() {
	c.running = false
	c.elapsed = 0
	c.runID = c.newRunID()
	c.logger.Debug("clock reset", "phase", c.phase, "target", c.target, "run_id", c.runID)
}

// Advance adds delta to the elapsed time of a running clock. Negative deltas
// count as zero. Reaching the target completes the phase before returning.
func (c *Clock) Advance(delta time.Duration) {
	if !c.running || delta <= 0 {
		return
	}
	if delta < c.target-c.elapsed {
		c.elapsed += delta
		return
	}
	// Overshoot past the target is dropped rather than carried into the next phase.
	c.elapsed = c.target
	c.complete()
}

// SetTargetMinutes stores a new length for phase. The running countdown is
// only changed when phase is current and has not progressed yet, in which
// case the clock is also reset. It reports whether the change took effect
// immediately.
func (c *Clock) SetTargetMinutes(phase models.Phase, mins int) bool {
	if !phase.Valid() {
		c.logger.Warn("ignoring duration for unknown phase", "phase", phase)
		return false
	}
	mins = ClampMinutes(mins)
	if c.durations != nil {
		c.durations.SetMinutes(phase, mins)
	}

	d := minutes(mins)
	if phase == models.PhaseBreak {
		c.brk = d
	} else {
		c.focus = d
	}

	if phase != c.phase || c.elapsed != 0 {
		c.logger.Info("duration change deferred", "phase", phase, "minutes", mins)
		return false
	}
	c.target = d
	c.Reset()
	c.logger.Info("duration changed", "phase", phase, "minutes", mins)
	return true
}

// Snapshot returns the state renderers need
func (c *Clock) Snapshot() Snapshot {
	remaining := c.target - c.elapsed
	if remaining < 0 {
		remaining = 0
	}
	seconds := int((remaining + time.Second - 1) / time.Second)

	var ratio float64
	if c.target > 0 {
		ratio = float64(c.elapsed) / float64(c.target)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	return Snapshot{
		Phase:            c.phase,
		Target:           c.target,
		Elapsed:          c.elapsed,
		Running:          c.running,
		RunID:            c.runID,
		RemainingSeconds: seconds,
		Ratio:            ratio,
	}
}

// Phase returns the current phase
func (c *Clock) Phase() models.Phase { return c.phase }

// Running reports whether the clock consumes ticks
func (c *Clock) Running() bool { return c.running }

// Elapsed returns progress within the current phase
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// Target returns the length of the current phase
func (c *Clock) Target() time.Duration { return c.target }

// Durations returns the configured phase lengths in whole minutes
func (c *Clock) Durations() models.DurationConfig {
	return models.DurationConfig{
		FocusMinutes: int(c.focus / time.Minute),
		BreakMinutes: int(c.brk / time.Minute),
	}
}

// complete runs the phase completion protocol. The focus to break chain
// only re-arms the clock; it never calls Advance again.
func (c *Clock) complete() {
	completed, duration, runID := c.phase, c.target, c.runID
	c.running = false

	c.emitRun(EventPhaseCompleted, completed, duration, runID)
	c.record(models.HistoryEntry{
		Phase:       completed,
		Duration:    duration,
		CompletedAt: c.now(),
	})
	c.logger.Info("phase completed", "phase", completed, "duration", duration, "run_id", runID)

	if completed == models.PhaseFocus {
		c.brk = c.configured(models.PhaseBreak, c.brk)
		c.begin(models.PhaseBreak, c.brk)
		c.emit(EventPhaseStarted, models.PhaseBreak, c.target)
		c.running = true
		return
	}

	c.focus = c.configured(models.PhaseFocus, c.focus)
	c.begin(models.PhaseFocus, c.focus)
}

func (c *Clock) begin(phase models.Phase, target time.Duration) {
	c.phase = phase
	c.target = target
	c.elapsed = 0
	c.runID = c.newRunID()
}

// configured reads the stored length for phase, or returns fallback when
// nothing usable is stored.
func (c *Clock) configured(phase models.Phase, fallback time.Duration) time.Duration {
	if c.durations == nil {
		return fallback
	}
	m, ok := c.durations.Minutes(phase)
	if !ok {
		return fallback
	}
	return minutes(ClampMinutes(m))
}

func (c *Clock) emit(kind EventType, phase models.Phase, duration time.Duration) {
	c.emitRun(kind, phase, duration, c.runID)
}

func (c *Clock) emitRun(kind EventType, phase models.Phase, duration time.Duration, runID string) {
	if c.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("notification sink panic", "error", r, "event", kind)
		}
	}()
	c.sink.Notify(Event{
		Type:     kind,
		Phase:    phase,
		Duration: duration,
		RunID:    runID,
		At:       c.now(),
	})
}

func (c *Clock) record(entry models.HistoryEntry) {
	if c.history == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("history append panic", "error", r)
		}
	}()
	c.history.Append(entry)
}

// ClampMinutes limits m to [MinMinutes, MaxMinutes]
func ClampMinutes(m int) int {
	if m < MinMinutes {
		return MinMinutes
	}
	if m > MaxMinutes {
		return MaxMinutes
	}
	return m
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

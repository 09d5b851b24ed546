package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Phase is the interval type of a pomodoro session
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// Valid reports whether p is a known phase
func (p Phase) Valid() bool {
	return p == PhaseFocus || p == PhaseBreak
}

// Label returns the human readable session label
func (p Phase) Label() string {
	if p == PhaseBreak {
		return "Short Break"
	}
	return "Focus Session"
}

// ParsePhase accepts "focus" or "break"
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q (want focus or break)", s)
	}
	return p, nil
}

// Default durations used when nothing has been saved yet
const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

// DurationConfig holds the user-chosen phase lengths
type DurationConfig struct {
	FocusMinutes int
	BreakMinutes int
}

// DefaultDurations returns the 25/5 classic pomodoro split
func DefaultDurations() DurationConfig {
	return DurationConfig{
		FocusMinutes: DefaultFocusMinutes,
		BreakMinutes: DefaultBreakMinutes,
	}
}

// Minutes returns the configured minutes for a phase
func (d DurationConfig) Minutes(phase Phase) int {
	if phase == PhaseBreak {
		return d.BreakMinutes
	}
	return d.FocusMinutes
}

// HistoryEntry records one completed session
type HistoryEntry struct {
	Phase       Phase
	Duration    time.Duration
	CompletedAt time.Time
}

// historyWire is the persisted shape: duration in seconds, date in epoch millis
type historyWire struct {
	Type     Phase   `json:"type"`
	Duration float64 `json:"duration"`
	Date     int64   `json:"date"`
}

// MarshalJSON encodes the entry as {type, duration, date}
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyWire{
		Type:     e.Phase,
		Duration: e.Duration.Seconds(),
		Date:     e.CompletedAt.UnixMilli(),
	})
}

// UnmarshalJSON decodes the {type, duration, date} shape
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var wire historyWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if math.IsNaN(wire.Duration) || math.IsInf(wire.Duration, 0) || wire.Duration < 0 {
		return fmt.Errorf("invalid duration %v", wire.Duration)
	}
	e.Phase = wire.Type
	e.Duration = time.Duration(wire.Duration * float64(time.Second))
	e.CompletedAt = time.UnixMilli(wire.Date)
	return nil
}

// RoundedMinutes returns the duration rounded to whole minutes
func (e HistoryEntry) RoundedMinutes() int {
	return int(math.Round(e.Duration.Minutes()))
}

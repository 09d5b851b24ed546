package notify

import (
	"io"
	"log/slog"
	"time"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/settings"
)

// toneGap spaces the notes of a two-note cue
const toneGap = 120 * time.Millisecond

// New assembles the sink chain for the given chime settings: every event is
// logged, then played through the external player or the terminal bell.
// The returned Chime is nil when chimes are disabled.
func New(cfg settings.ChimeSettings, out io.Writer, logger *slog.Logger) (clock.Sink, *Chime) {
	sinks := Multi{Log{Logger: logger}}
	if !cfg.Enabled {
		return Safe{Sink: sinks, Logger: logger}, nil
	}

	chime := NewChime(out, toneGap, logger)
	sinks = append(sinks, External{
		URL:      cfg.FocusSoundURL,
		Player:   cfg.Player,
		Fallback: chime,
		Logger:   logger,
	})
	return Safe{Sink: sinks, Logger: logger}, chime
}

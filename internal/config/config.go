package config

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/internal/logging"
	"github.com/strrl/tiking/pkg/models"
)

const storeTimeout = 2 * time.Second

// Config persists the focus and break minutes in a kv.Store.
// Every failure is logged and swallowed; callers always get usable values.
type Config struct {
	store  kv.Store
	logger *slog.Logger
}

// New creates a Config over store
func New(store kv.Store, logger *slog.Logger) *Config {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Config{store: store, logger: logger}
}

// Load returns the saved durations, falling back to 25/5 per missing or bad value
func (c *Config) Load() models.DurationConfig {
	durations := models.DefaultDurations()
	if m, ok := c.Minutes(models.PhaseFocus); ok {
		durations.FocusMinutes = m
	}
	if m, ok := c.Minutes(models.PhaseBreak); ok {
		durations.BreakMinutes = m
	}
	return durations
}

// Save overwrites both stored values
func (c *Config) Save(durations models.DurationConfig) {
	c.SetMinutes(models.PhaseFocus, durations.FocusMinutes)
	c.SetMinutes(models.PhaseBreak, durations.BreakMinutes)
}

// Minutes returns the stored minutes for phase. ok is false when nothing
// usable is stored.
func (c *Config) Minutes(phase models.Phase) (int, bool) {
	key := keyFor(phase)
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.logger.Warn("could not read duration", "key", key, "error", err)
		}
		return 0, false
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes <= 0 {
		c.logger.Warn("ignoring invalid stored duration", "key", key, "value", raw)
		return 0, false
	}
	return minutes, true
}

// SetMinutes stores minutes for phase as a plain numeric string
func (c *Config) SetMinutes(phase models.Phase, minutes int) {
	key := keyFor(phase)
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := c.store.Set(ctx, key, strconv.Itoa(minutes)); err != nil {
		c.logger.Warn("could not save duration", "key", key, "error", err)
	}
}

func keyFor(phase models.Phase) string {
	if phase == models.PhaseBreak {
		return kv.KeyBreakMinutes
	}
	return kv.KeyFocusMinutes
}

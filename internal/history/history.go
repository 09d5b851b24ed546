package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/internal/logging"
	"github.com/strrl/tiking/pkg/models"
)

// MaxEntries is how many completed sessions are retained
const MaxEntries = 50

const storeTimeout = 2 * time.Second

// Log is an append-only, count-bounded list of completed sessions.
// Entries are kept most-recent-first, which is also the persisted order.
type Log struct {
	store   kv.Store
	logger  *slog.Logger
	max     int
	entries []models.HistoryEntry
}

// Option configures a Log
type Option func(*Log)

// WithLogger sets the logger for load and save failures
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxEntries overrides the retention bound
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.max = n
		}
	}
}

// Load reads the log from store. Missing or corrupt data yields an empty log.
func Load(store kv.Store, opts ...Option) *Log {
	l := &Log{
		store:  store,
		logger: logging.Discard(),
		max:    MaxEntries,
	}
	for _, opt := range opts {
		opt(l)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	raw, err := store.Get(ctx, kv.KeyHistory)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			l.logger.Warn("could not read history", "error", err)
		}
		return l
	}

	entries, err := Decode([]byte(raw))
	if err != nil {
		l.logger.Warn("discarding corrupt history", "error", err)
		return l
	}
	if len(entries) > l.max {
		entries = entries[:l.max]
	}
	l.entries = entries
	return l
}

// Append records a completed session at the most-recent end and evicts the
// oldest entries beyond the bound.
func (l *Log) Append(entry models.HistoryEntry) {
	l.entries = append([]models.HistoryEntry{entry}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	l.save()
}

// All returns a copy of the entries, most recent first
func (l *Log) All() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear drops every entry
func (l *Log) Clear() {
	l.entries = nil
	l.save()
}

func (l *Log) save() {
	data, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.Warn("could not encode history", "error", err)
		return
	}
	if l.entries == nil {
		data = []byte("[]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := l.store.Set(ctx, kv.KeyHistory, string(data)); err != nil {
		l.logger.Warn("could not save history", "error", err)
	}
}

// Decode parses the persisted JSON array, skipping entries whose type is
// neither focus nor break.
func Decode(data []byte) ([]models.HistoryEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.HistoryEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if !entry.Phase.Valid() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

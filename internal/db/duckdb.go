package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/strrl/tiking/internal/kv"
)

// FileName is the database file created inside the data directory
const FileName = "tiking.duckdb"

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        VARCHAR PRIMARY KEY,
		value      VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

// Open opens (creating if needed) a DuckDB database at path.
// An empty path opens an in-memory database.
func Open(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// DuckDB works best with single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	return db, nil
}

// LoadJSON installs and loads the JSON extension needed by the stats queries
func LoadJSON(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "INSTALL json"); err != nil {
		return fmt.Errorf("failed to install JSON extension: %w", err)
	}
	if _, err := db.ExecContext(ctx, "LOAD json"); err != nil {
		return fmt.Errorf("failed to load JSON extension: %w", err)
	}
	return nil
}

// KV is a kv.Store backed by the kv_store table
type KV struct {
	db *sql.DB
}

// NewKV wraps an opened database
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// OpenKV opens the database file at path and returns a store over it
func OpenKV(path string) (*KV, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewKV(db), nil
}

// DB exposes the underlying handle for reporting queries
func (s *KV) DB() *sql.DB {
	return s.db
}

func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *KV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv_store ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *KV) Close() error {
	return s.db.Close()
}

// DailyTotal aggregates completed sessions of one phase on one day
type DailyTotal struct {
	Day      time.Time
	Phase    string
	Sessions int
	Seconds  float64
}

// historyStatsQuery unpacks the history JSON array stored under a key and
// groups it by UTC day and session type.
const historyStatsQuery = `
	WITH entries AS (
		SELECT unnest(from_json(value, '[{"type":"VARCHAR","duration":"DOUBLE","date":"BIGINT"}]')) AS e
		FROM kv_store
		WHERE key = ?
	)
	SELECT
		CAST(epoch_ms(e.date) AS DATE) AS day,
		e.type AS phase,
		COUNT(*) AS sessions,
		SUM(e.duration) AS seconds
	FROM entries
	WHERE e.type IN ('focus', 'break')
	GROUP BY day, phase
	ORDER BY day DESC, phase
	LIMIT ?`

// DailyTotals returns per-day totals of the history stored under key,
// newest day first. The JSON extension must be loaded.
func DailyTotals(ctx context.Context, db *sql.DB, key string, limit int) ([]DailyTotal, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := db.QueryContext(ctx, historyStatsQuery, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute history stats query: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var total DailyTotal
		if err := rows.Scan(&total.Day, &total.Phase, &total.Sessions, &total.Seconds); err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

package db

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/strrl/tiking/internal/kv"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	store, err := OpenKV("")
	if err != nil {
		t.Skipf("Skipping test, DuckDB unavailable: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestKVRoundTrip tests basic get/set/delete on the kv_store table
func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestKV(t)

	if _, err := store.Get(ctx, kv.KeyFocusMinutes); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, kv.KeyFocusMinutes, "25"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwrite-whole-value semantics
	if err := store.Set(ctx, kv.KeyFocusMinutes, "40"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, err := store.Get(ctx, kv.KeyFocusMinutes)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "40" {
		t.Errorf("Expected 40, got %q", value)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != kv.KeyFocusMinutes {
		t.Errorf("Unexpected keys %v", keys)
	}

	if err := store.Delete(ctx, kv.KeyFocusMinutes); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, kv.KeyFocusMinutes); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

// TestDailyTotals tests aggregation of the history JSON with DuckDB
func TestDailyTotals(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store := openTestKV(t)

	if err := LoadJSON(ctx, store.DB()); err != nil {
		t.Skipf("Skipping test, JSON extension unavailable: %v", err)
	}

	day1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC).UnixMilli()
	day2 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC).UnixMilli()
	history := `[
		{"type":"focus","duration":1500,"date":` + itoa(day2) + `},
		{"type":"break","duration":300,"date":` + itoa(day1+1) + `},
		{"type":"focus","duration":1500,"date":` + itoa(day1) + `},
		{"type":"focus","duration":600,"date":` + itoa(day1) + `}
	]`
	if err := store.Set(ctx, kv.KeyHistory, history); err != nil {
		t.Fatalf("set: %v", err)
	}

	totals, err := DailyTotals(ctx, store.DB(), kv.KeyHistory, 10)
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %+v", len(totals), totals)
	}

	first := totals[0]
	if first.Day.Day() != 5 || first.Phase != "focus" || first.Sessions != 1 || first.Seconds != 1500 {
		t.Errorf("Unexpected newest row %+v", first)
	}

	var focusDay1 DailyTotal
	for _, row := range totals {
		if row.Day.Day() == 4 && row.Phase == "focus" {
			focusDay1 = row
		}
	}
	if focusDay1.Sessions != 2 || focusDay1.Seconds != 2100 {
		t.Errorf("Expected 2 focus sessions totalling 2100s on day 1, got %+v", focusDay1)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/pkg/models"
)

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	cfg := New(kv.NewMemory(), nil)
	got := cfg.Load()
	if got != models.DefaultDurations() {
		t.Errorf("Expected 25/5 defaults, got %+v", got)
	}
	if _, ok := cfg.Minutes(models.PhaseFocus); ok {
		t.Error("Focus minutes should report unset")
	}
}

func TestLoadFallsBackPerValue(t *testing.T) {
	tests := []struct {
		name      string
		focus     string
		brk       string
		wantFocus int
		wantBreak int
	}{
		{"both valid", "40", "10", 40, 10},
		{"padded", " 30 ", "15\n", 30, 15},
		{"garbage focus", "abc", "10", 25, 10},
		{"zero break", "50", "0", 50, 5},
		{"negative focus", "-5", "20", 25, 20},
		{"float", "25.5", "5", 25, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			ctx := context.Background()
			_ = store.Set(ctx, kv.KeyFocusMinutes, tt.focus)
			_ = store.Set(ctx, kv.KeyBreakMinutes, tt.brk)

			got := New(store, nil).Load()
			if got.FocusMinutes != tt.wantFocus || got.BreakMinutes != tt.wantBreak {
				t.Errorf("Expected %d/%d, got %+v", tt.wantFocus, tt.wantBreak, got)
			}
		})
	}
}

func TestSaveWritesPlainNumericStrings(t *testing.T) {
	store := kv.NewMemory()
	New(store, nil).Save(models.DurationConfig{FocusMinutes: 45, BreakMinutes: 15})

	ctx := context.Background()
	focus, _ := store.Get(ctx, kv.KeyFocusMinutes)
	brk, _ := store.Get(ctx, kv.KeyBreakMinutes)
	if focus != "45" || brk != "15" {
		t.Errorf("Expected 45/15, got %q/%q", focus, brk)
	}
}

// failingStore rejects every operation
type failingStore struct{ kv.Memory }

func (*failingStore) Get(context.Context, string) (string, error) { return "", errors.New("disk gone") }
func (*failingStore) Set(context.Context, string, string) error   { return errors.New("quota exceeded") }

func TestStoreFailuresAreSwallowed(t *testing.T) {
	cfg := New(&failingStore{}, nil)
	cfg.Save(models.DurationConfig{FocusMinutes: 10, BreakMinutes: 10})
	if got := cfg.Load(); got != models.DefaultDurations() {
		t.Errorf("Expected defaults after failed store, got %+v", got)
	}
}

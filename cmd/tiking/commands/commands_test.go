package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/config"
	"github.com/strrl/tiking/internal/history"
	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/pkg/models"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"run", "history", "config", "debug-store"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Expected subcommand %s", name)
		}
	}
	for _, flag := range []string{"data-dir", "settings", "log-level", "ephemeral"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
}

func TestCountdownStopsOnCancel(t *testing.T) {
	store := kv.NewMemory()
	log := history.Load(store)
	c := clock.New(config.New(store, nil), log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := countdown(ctx, c, time.Hour, &out); err != nil {
		t.Fatalf("countdown failed: %v", err)
	}
	if c.Running() {
		t.Error("Clock should be paused after cancel")
	}
	if log.Len() != 0 {
		t.Error("Interrupted session must not be recorded")
	}
	if !strings.Contains(out.String(), "25:00") || !strings.Contains(out.String(), "Stopped.") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestRenderLine(t *testing.T) {
	line := renderLine(clock.Snapshot{Phase: models.PhaseBreak, RemainingSeconds: 61})
	if !strings.Contains(line, "Short Break") || !strings.Contains(line, "01:01") {
		t.Errorf("Unexpected line %q", line)
	}
}

func TestDumpStore(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	if err := dumpStore(ctx, store); err != nil {
		t.Fatalf("dump of empty store failed: %v", err)
	}
	if err := store.Set(ctx, kv.KeyFocusMinutes, "30"); err != nil {
		t.Fatal(err)
	}
	if err := dumpStore(ctx, store); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
}

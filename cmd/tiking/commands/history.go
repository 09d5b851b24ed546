package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/db"
	"github.com/strrl/tiking/internal/history"
	"github.com/strrl/tiking/internal/kv"
)

var (
	historyLimit int
	historyStats bool
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed sessions without TUI",
		Long: `Show completed focus sessions and breaks, most recent first.
With --stats: shows per-day totals computed by the database`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show at most n entries or days")
	cmd.Flags().BoolVar(&historyStats, "stats", false, "Show per-day totals")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClear,
	})
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if historyStats {
		return showDailyTotals(cmd.Context(), a)
	}

	entries := a.history.All()
	if len(entries) == 0 {
		fmt.Println("No sessions recorded yet")
		return nil
	}
	if historyLimit > 0 && historyLimit < len(entries) {
		entries = entries[:historyLimit]
	}

	today := history.Summarize(a.history.All(), history.StartOfDay(time.Now()))
	fmt.Printf("Today: %d focus sessions (%d min), %d breaks (%d min)\n",
		today.FocusSessions, int(today.FocusTime/time.Minute),
		today.BreakSessions, int(today.BreakTime/time.Minute))
	fmt.Println("=========")
	for i, e := range entries {
		title, when := history.Format(e)
		fmt.Printf("%d. %s  (%s)\n", i+1, title, when)
	}
	return nil
}

func showDailyTotals(ctx context.Context, a *app) error {
	if a.database == nil {
		return fmt.Errorf("--stats needs the database; drop --ephemeral")
	}
	if err := db.LoadJSON(ctx, a.database.DB()); err != nil {
		return err
	}

	totals, err := db.DailyTotals(ctx, a.database.DB(), kv.KeyHistory, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to compute daily totals: %w", err)
	}
	if len(totals) == 0 {
		fmt.Println("No sessions recorded yet")
		return nil
	}

	fmt.Println("Daily totals (UTC):")
	fmt.Println("===================")
	for _, t := range totals {
		fmt.Printf("%s  %-6s %3d sessions  %4d min\n",
			t.Day.Format("2006-01-02"), t.Phase, t.Sessions, int(t.Seconds/60+0.5))
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.history.Len()
	a.history.Clear()
	a.logger.Info("history cleared", "entries", n)
	fmt.Printf("Cleared %d sessions\n", n)
	return nil
}

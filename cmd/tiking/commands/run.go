package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/notify"
	"github.com/strrl/tiking/pkg/models"
)

var (
	runFocusMinutes int
	runBreakMinutes int
)

// NewRunCommand creates the headless run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one focus and break cycle without the TUI",
		Long: `Run counts down one focus session followed by its break, printing the
remaining time every second. Press Ctrl-C to stop early; an interrupted
session is not recorded.`,
		Args: cobra.NoArgs,
		RunE: runHeadless,
	}
	cmd.Flags().IntVar(&runFocusMinutes, "focus", 0, "Focus minutes to save before starting")
	cmd.Flags().IntVar(&runBreakMinutes, "break", 0, "Break minutes to save before starting")
	return cmd
}

func runHeadless(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sink, chime := notify.New(a.settings.Chime, os.Stderr, a.logger)
	c := clock.New(a.config, a.history, sink, clock.WithLogger(a.logger))
	if runFocusMinutes > 0 {
		c.SetTargetMinutes(models.PhaseFocus, runFocusMinutes)
	}
	if runBreakMinutes > 0 {
		c.SetTargetMinutes(models.PhaseBreak, runBreakMinutes)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = countdown(ctx, c, a.settings.TickInterval, cmd.OutOrStdout())
	if chime != nil {
		chime.Wait()
	}
	return err
}

// countdown drives c from a ticker until the cycle returns to an idle focus
// phase or ctx is cancelled.
func countdown(ctx context.Context, c *clock.Clock, interval time.Duration, out io.Writer) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Start()
	last := time.Now()
	printed := ""
	printLine := func() {
		line := renderLine(c.Snapshot())
		if line != printed {
			fmt.Fprintln(out, line)
			printed = line
		}
	}
	printLine()

	for {
		select {
		case <-ctx.Done():
			c.Pause()
			fmt.Fprintln(out, "Stopped.")
			return nil
		case now := <-ticker.C:
			c.Advance(now.Sub(last))
			last = now
			printLine()
			if !c.Running() {
				fmt.Fprintln(out, "Cycle complete.")
				return nil
			}
		}
	}
}

var (
	focusLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	breakLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	clockStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

func renderLine(snap clock.Snapshot) string {
	label := focusLabelStyle
	if snap.Phase == models.PhaseBreak {
		label = breakLabelStyle
	}
	return fmt.Sprintf("%s  %s", label.Render(fmt.Sprintf("%-14s", snap.Phase.Label())), clockStyle.Render(snap.Clock()))
}

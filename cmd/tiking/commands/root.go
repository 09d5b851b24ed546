package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/notify"
	"github.com/strrl/tiking/internal/settings"
	"github.com/strrl/tiking/internal/tui"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	settingsPath, _ := settings.DefaultPath()

	rootCmd := &cobra.Command{
		Use:   "tiking",
		Short: "A Pomodoro focus timer for the terminal",
		Long: `tiking alternates focus sessions and short breaks, chimes at every phase
change and keeps a log of the sessions you complete.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "Directory for the database and log file")
	rootCmd.PersistentFlags().StringVar(&flags.settingsPath, "settings", settingsPath, "Path to settings.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep durations and history in memory only")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDebugCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	feed := tui.NewFeed()
	sink, chime := notify.New(a.settings.Chime, os.Stderr, a.logger)
	c := clock.New(a.config, a.history, notify.Multi{sink, feed}, clock.WithLogger(a.logger))

	err = tui.Run(tui.Options{
		Clock:        c,
		History:      a.history,
		Feed:         feed,
		TickInterval: a.settings.TickInterval,
	})
	if chime != nil {
		chime.Wait()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/pkg/models"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the focus and break durations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved durations",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <focus|break> <minutes>",
		Short: "Save a duration in minutes (1-180)",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, phase := range []models.Phase{models.PhaseFocus, models.PhaseBreak} {
		minutes, ok := a.config.Minutes(phase)
		source := "saved"
		if !ok {
			minutes = models.DefaultDurations().Minutes(phase)
			source = "default"
		}
		fmt.Printf("%-6s %3d min (%s)\n", phase, minutes, source)
	}
	fmt.Printf("Settings: %s\n", flags.settingsPath)
	fmt.Printf("Data dir: %s\n", a.settings.DataDir)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	phase, err := models.ParsePhase(args[0])
	if err != nil {
		return err
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid minutes %q: %w", args[1], err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	clamped := clock.ClampMinutes(minutes)
	a.config.SetMinutes(phase, clamped)
	if clamped != minutes {
		fmt.Printf("%s set to %d min (clamped from %d)\n", phase, clamped, minutes)
		return nil
	}
	fmt.Printf("%s set to %d min\n", phase, clamped)
	return nil
}

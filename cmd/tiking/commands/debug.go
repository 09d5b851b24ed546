package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/kv"
)

// NewDebugCommand creates the debug-store command
func NewDebugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug-store",
		Short: "Dump the raw key/value pairs",
		Args:  cobra.NoArgs,
		RunE:  runDebugStore,
	}
}

func runDebugStore(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return dumpStore(cmd.Context(), a.store)
}

func dumpStore(ctx context.Context, store kv.Store) error {
	keys, err := store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("Store is empty")
		return nil
	}

	fmt.Printf("Found %d keys:\n", len(keys))
	for _, key := range keys {
		value, err := store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		fmt.Printf("\n--- %s ---\n%s\n", key, value)
	}
	return nil
}

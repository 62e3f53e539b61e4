package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	shopkit "github.com/vango-dev/shopkit"
	"github.com/vango-dev/shopkit/pkg/auth"
	"github.com/vango-dev/shopkit/pkg/cart"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/wishlist"
)

func inspectCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect [slot...]",
		Short: "Dump persisted store snapshots",
		Long: `Dump the persisted snapshots from the configured backend.

Without arguments all three store slots are shown. Pass slot keys to
restrict the output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shopkit.LoadConfig(configPath)
			if err != nil {
				return err
			}
			dir := cfg.StateDir
			if dir == "" {
				base, err := os.UserConfigDir()
				if err != nil {
					return fmt.Errorf("resolve state dir: %w", err)
				}
				dir = filepath.Join(base, "shopkit")
			}

			store, err := persist.NewFileStore(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			slots := args
			if len(slots) == 0 {
				slots = []string{slotOr(cfg.Slots.Cart, cart.DefaultSlot),
					slotOr(cfg.Slots.Wishlist, wishlist.DefaultSlot),
					slotOr(cfg.Slots.Session, auth.DefaultSlot)}
			}

			ctx := context.Background()
			for _, slot := range slots {
				data, err := store.Get(ctx, slot)
				if err != nil {
					return err
				}
				if data == nil {
					fmt.Printf("%s: (no snapshot)\n", slot)
					continue
				}

				var env persist.Envelope
				if err := json.Unmarshal(data, &env); err != nil {
					fmt.Printf("%s: (unreadable: %v)\n", slot, err)
					continue
				}

				pretty, _ := json.MarshalIndent(env.State, "  ", "  ")
				fmt.Printf("%s (v%d, saved %s):\n  %s\n", slot, env.Version,
					env.SavedAt.Format("2006-01-02 15:04:05"), pretty)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", shopkit.ConfigFileName, "Config file path")

	return cmd
}

func slotOr(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

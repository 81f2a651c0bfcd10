package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/slot"
	"github.com/tair/storefront/internal/favorites/store"
)

const appName = "favctl"

// NewRootCmd creates the favctl root command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and edit the favorites slot",
		Long:          "favctl reads and toggles the persisted favorites collection without running the service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(appName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("slot", slot.KindBolt, "slot backend (memory, bolt, sqlite, redis)")
	cmd.PersistentFlags().String("path", "./data/favorites.db", "slot file for bolt and sqlite")
	cmd.PersistentFlags().String("redis-addr", "localhost:6379", "redis address for the redis slot")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewListCmd(),
		NewContainsCmd(),
		NewToggleCmd(),
	)

	return cmd
}

// openedStore is an open store plus the slot underneath it.
type openedStore struct {
	Store    *store.Store
	JSONMode bool
	slot     domain.Slot
}

func (c *openedStore) Close() {
	_ = c.Store.Close()
	_ = c.slot.Close()
}

func openStore(ctx context.Context, cmd *cobra.Command) (*openedStore, error) {
	kind, _ := cmd.Flags().GetString("slot")
	path, _ := cmd.Flags().GetString("path")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	jsonMode, _ := cmd.Flags().GetBool("json")

	s, err := slot.Open(ctx, slot.Config{
		Kind:      kind,
		Path:      path,
		RedisAddr: redisAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s slot: %w", kind, err)
	}

	return &openedStore{
		Store:    store.New(s),
		JSONMode: jsonMode,
		slot:     s,
	}, nil
}

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if domain.IsStorageReadError(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: the stored collection could not be read. It is left untouched.")
	}

	return err
}

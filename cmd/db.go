package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/config"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/sqlstore"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SQL journal store",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or verify the journal schema",
	Args:  cobra.NoArgs,
	RunE:  runDBUpgrade,
}

func init() {
	dbCmd.AddCommand(dbUpgradeCmd)
}

func runDBUpgrade(cmd *cobra.Command, args []string) error {
	switch cfg.Store.Backend {
	case config.BackendSQLite, config.BackendPostgres:
	default:
		return usageError("store backend %q has no schema; use --store sqlite or --store postgres", cfg.Store.Backend)
	}

	// openBackend upgrades SQL stores on open.
	backend, closeFn, err := openBackend(cmd.Context(), cfg, baseDir)
	if err != nil {
		return storageError(err)
	}
	defer closeFn()

	v, err := backend.(*sqlstore.Store).Version(cmd.Context())
	if err != nil {
		return storageError(err)
	}
	fmt.Printf("Journal schema at version %d (%s).\n", v, cfg.Store.Backend)
	return nil
}

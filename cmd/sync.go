package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/logging"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

var (
	syncParallel int
	syncDryRun   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Store entries that were queued after a failed write",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncParallel, "parallel", 4, "Number of entries written concurrently")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print planned operations without writing")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncParallel < 1 {
		return usageError("--parallel must be at least 1")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	queued, err := a.pending.List()
	if err != nil {
		return storageError(err)
	}
	if len(queued) == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}

	dryTag := ""
	if syncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing %d queued entries to %s%s...\n", len(queued), cfg.Store.Backend, dryTag)

	start := time.Now()
	result, err := storage.Sync(cmd.Context(), a.pending, a.store, storage.SyncOptions{
		Parallel: syncParallel,
		DryRun:   syncDryRun,
		Logger:   logging.New("sync"),
	})
	if err != nil {
		return storageError(err)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d stored\n", result.Synced)
	fmt.Printf("  %d already present\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors (still queued)\n", result.Errors)
	}
	fmt.Printf("  took %s\n", timecalc.FormatDuration(time.Since(start)))
	if result.Errors > 0 {
		return storageError(errors.New("some entries could not be stored"))
	}
	return nil
}

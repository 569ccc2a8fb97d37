package storage

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// SyncResult holds counters for a replay of the pending queue.
type SyncResult struct {
	Synced  int
	Skipped int
	Errors  int
}

// SyncOptions configures a replay run.
type SyncOptions struct {
	Parallel int
	DryRun   bool
	Logger   *slog.Logger
}

// Sync writes every pending entry to target. Entries already present in the
// target (matched by ID) are skipped; both synced and skipped entries leave
// the queue. Failed entries stay queued for the next run.
func Sync(ctx context.Context, pending *Pending, target Store, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	entries, err := pending.List()
	if err != nil {
		return result, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	var (
		mu   sync.Mutex
		done []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, e := range entries {
		g.Go(func() error {
			outcome := syncOne(gctx, target, e, opts.DryRun)
			mu.Lock()
			defer mu.Unlock()
			switch outcome.state {
			case syncSkipped:
				result.Skipped++
				done = append(done, e.ID)
				logger.Info("pending entry already stored", "id", e.ID, "date", e.CreatedDate)
			case syncWritten:
				result.Synced++
				done = append(done, e.ID)
				logger.Info("pending entry stored", "id", e.ID, "date", e.CreatedDate, "color", e.Color)
			default:
				result.Errors++
				logger.Error("pending entry not stored", "id", e.ID, "date", e.CreatedDate, "error", outcome.err)
			}
			return nil
		})
	}
	_ = g.Wait() // failures are counted per entry

	if opts.DryRun {
		return result, nil
	}
	return result, pending.Remove(done...)
}

type syncState int

const (
	syncFailed syncState = iota
	syncSkipped
	syncWritten
)

type syncOutcome struct {
	state syncState
	err   error
}

func syncOne(ctx context.Context, target Store, e model.JournalEntry, dryRun bool) syncOutcome {
	existing, err := FetchDay(ctx, target, e.CreatedDate)
	if err != nil {
		return syncOutcome{err: err}
	}
	for _, x := range existing {
		if x.ID == e.ID {
			return syncOutcome{state: syncSkipped}
		}
	}
	if dryRun {
		return syncOutcome{state: syncWritten}
	}
	if err := target.Append(ctx, e); err != nil {
		return syncOutcome{err: err}
	}
	return syncOutcome{state: syncWritten}
}

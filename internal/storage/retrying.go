package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/retry"
)

// RetryingStore retries failed appends according to Policy. Reads pass
// straight through.
type RetryingStore struct {
	Store
	Policy retry.Policy
	Logger *slog.Logger
}

// NewRetrying wraps s with policy p.
func NewRetrying(s Store, p retry.Policy, logger *slog.Logger) *RetryingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingStore{Store: s, Policy: p, Logger: logger}
}

func (r *RetryingStore) Append(ctx context.Context, e model.JournalEntry) error {
	err := retry.Do(ctx, r.Policy, func(ctx context.Context) error {
		return r.Store.Append(ctx, e)
	}, func(attempt int, err error) {
		r.Logger.Warn("append failed, retrying", "id", e.ID, "attempt", attempt, "error", err)
	})
	if err != nil && !errors.Is(err, ErrWrite) {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return err
}

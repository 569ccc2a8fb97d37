package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

var (
	// ErrRead marks a failure to read entries from the backing store.
	ErrRead = errors.New("journal store read failed")
	// ErrWrite marks a failure to append an entry to the backing store.
	ErrWrite = errors.New("journal store write failed")
)

// Store is an append-only journal store that returns a day's entries in pages.
type Store interface {
	Append(ctx context.Context, e model.JournalEntry) error
	// QueryDay returns one page of the entries created on date (YYYY-MM-DD).
	// An empty cursor asks for the first page; an empty NextCursor means
	// there are no more pages.
	QueryDay(ctx context.Context, date, cursor string) (Page, error)
}

// Page is one slice of a day's entries.
type Page struct {
	Entries    []model.JournalEntry
	NextCursor string
}

// FetchDay follows the cursors of s until the whole day has been read.
// Backends without a unique key can hold the same entry twice after a
// retried append; only the first row for each non-empty ID is kept.
func FetchDay(ctx context.Context, s Store, date string) ([]model.JournalEntry, error) {
	var all []model.JournalEntry
	seen := map[string]bool{}
	ids := map[string]bool{}
	cursor := ""
	for {
		page, err := s.QueryDay(ctx, date, cursor)
		if err != nil {
			return nil, err
		}
		for _, e := range page.Entries {
			if e.ID != "" {
				if ids[e.ID] {
					continue
				}
				ids[e.ID] = true
			}
			all = append(all, e)
		}
		if page.NextCursor == "" {
			return all, nil
		}
		if seen[page.NextCursor] {
			return nil, fmt.Errorf("%w: cursor %q repeated while reading %s", ErrRead, page.NextCursor, date)
		}
		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}
}

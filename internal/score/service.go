package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

// Service reads entries from a store, caches the current day and summarizes it.
type Service struct {
	Store      storage.Store
	Cache      *Cache
	Aggregator Aggregator
	// Now decides which date "today" is; its location is the journal timezone.
	Now func() time.Time
}

// NewService wires a Service with the default aggregator.
func NewService(store storage.Store, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache(DefaultTTL)
	}
	return &Service{
		Store:      store,
		Cache:      cache,
		Aggregator: NewAggregator(nil),
		Now:        time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today summarizes the current calendar day.
func (s *Service) Today(ctx context.Context) (model.DailyScoreSummary, error) {
	return s.ForDate(ctx, timecalc.DateKey(s.now()))
}

// Entries returns every entry stored for date, served from the cache when fresh.
func (s *Service) Entries(ctx context.Context, date string) ([]model.JournalEntry, error) {
	var gen uint64
	if s.Cache != nil {
		if entries, ok := s.Cache.Get(date); ok {
			return entries, nil
		}
		gen = s.Cache.Generation()
	}
	entries, err := storage.FetchDay(ctx, s.Store, date)
	if err != nil {
		return nil, wrapRead(err)
	}
	if s.Cache != nil {
		// A write that landed during the fetch has already invalidated;
		// this snapshot may predate it.
		s.Cache.PutIfGen(date, gen, entries)
	}
	return entries, nil
}

// ForDate summarizes date (YYYY-MM-DD). A read failure is returned as an
// error wrapping storage.ErrRead, never as a zero summary.
func (s *Service) ForDate(ctx context.Context, date string) (model.DailyScoreSummary, error) {
	entries, err := s.Entries(ctx, date)
	if err != nil {
		return model.DailyScoreSummary{}, err
	}
	summary := s.Aggregator.Compute(entries)
	summary.Date = date
	return summary, nil
}

// Week summarizes each day of the ISO week containing t, Monday first.
func (s *Service) Week(ctx context.Context, t time.Time) ([]model.DailyScoreSummary, error) {
	days := timecalc.DaysOfWeek(t)
	out := make([]model.DailyScoreSummary, 0, len(days))
	for _, d := range days {
		summary, err := s.ForDate(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Invalidate drops cached entries so the next read hits the store.
func (s *Service) Invalidate() {
	if s.Cache != nil {
		s.Cache.Invalidate()
	}
}

func wrapRead(err error) error {
	if errors.Is(err, storage.ErrRead) {
		return err
	}
	return fmt.Errorf("%w: %w", storage.ErrRead, err)
}

// Package score rolls up one day's journal entries into a 0-100 score.
package score

import (
	"math"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/phrases"
)

// Aggregator computes daily summaries against a phrase table.
type Aggregator struct {
	Phrases *phrases.Table
}

// NewAggregator returns an Aggregator using t, or the embedded table when t is nil.
func NewAggregator(t *phrases.Table) Aggregator {
	if t == nil {
		t = phrases.Default()
	}
	return Aggregator{Phrases: t}
}

// ComputeDailyScore uses the embedded phrase table.
func ComputeDailyScore(entries []model.JournalEntry) model.DailyScoreSummary {
	return NewAggregator(nil).Compute(entries)
}

// Compute summarizes entries. Questions matching a neutral phrase are
// informational and do not count towards the score. The stored color is
// trusted as it is; unknown labels weigh the same as yellow.
func (a Aggregator) Compute(entries []model.JournalEntry) model.DailyScoreSummary {
	s := model.DailyScoreSummary{
		TotalEntries: len(entries),
		Distribution: map[int]int{},
		NoEntries:    len(entries) == 0,
	}
	if len(entries) > 0 {
		s.Date = entries[0].CreatedDate
	}

	sum := 0
	for _, e := range entries {
		if a.Phrases.IsNeutral(e.Question) {
			s.ExcludedEntries++
			continue
		}
		w := classify.Weight(e.Color)
		sum += w
		s.CountedAnswers++
		s.Distribution[w]++
	}
	if s.CountedAnswers == 0 {
		return s
	}

	s.AverageColorValue = float64(sum) / float64(s.CountedAnswers)
	s.ScoreValue = toScore(s.AverageColorValue)
	return s
}

// toScore scales an average weight (0-5) onto 0-100, rounding half away from zero.
func toScore(avg float64) int {
	v := int(math.Round(avg * 20))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

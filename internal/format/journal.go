package format

import (
	"fmt"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// ScoreCell renders a summary's score, or "-" when nothing was counted.
func ScoreCell(s model.DailyScoreSummary) string {
	if !s.HasScore() {
		return "-"
	}
	return fmt.Sprintf("%d", s.ScoreValue)
}

// Summary renders one day's score with its color distribution.
func Summary(m Mode, s model.DailyScoreSummary) string {
	tb := NewTable(m)
	tb.Header("Date", "Score", "Average", "Counted", "Excluded", "Total")
	avg := "-"
	if s.HasScore() {
		avg = fmt.Sprintf("%.2f", s.AverageColorValue)
	}
	tb.Row(s.Date, ScoreCell(s), avg, s.CountedAnswers, s.ExcludedEntries, s.TotalEntries)
	tb.Columns(
		ColumnConfig{Number: 2, Align: AlignRight},
		ColumnConfig{Number: 3, Align: AlignRight},
	)
	out := tb.String()

	if len(s.Distribution) == 0 {
		return out
	}
	dist := NewTable(m)
	dist.Header("Color", "Weight", "Answers")
	for _, c := range model.Colors {
		w := classify.Weight(c)
		if n := s.Distribution[w]; n > 0 {
			dist.Row(string(c), w, n)
		}
	}
	return out + "\n" + dist.String()
}

// Week renders one row per day plus the average of the days that have a score.
func Week(m Mode, label string, days []model.DailyScoreSummary) string {
	tb := NewTable(m)
	tb.Header("Day", "Date", "Score", "Answers")
	sum, scored := 0, 0
	for _, d := range days {
		weekday := ""
		if t, err := timecalc.ParseDate(d.Date, time.UTC); err == nil {
			weekday = t.Weekday().String()[:3]
		}
		tb.Row(weekday, d.Date, ScoreCell(d), d.CountedAnswers)
		if d.HasScore() {
			sum += d.ScoreValue
			scored++
		}
	}
	avg := "-"
	if scored > 0 {
		avg = fmt.Sprintf("%d", (sum+scored/2)/scored)
	}
	tb.Footer(label, "", avg, "")
	tb.Columns(ColumnConfig{Number: 3, Align: AlignRight})
	return tb.String()
}

// Entries renders a day's entries in stored order.
func Entries(m Mode, entries []model.JournalEntry) string {
	tb := NewTable(m)
	tb.Header("Time", "Slot", "Category", "Question", "Answer", "Color")
	for _, e := range entries {
		tb.Row(e.CreatedAt.Local().Format("15:04"), string(e.TimeOfDay), e.Category,
			Truncate(e.Question, 48), Truncate(e.Answer, 32), string(e.Color))
	}
	return tb.String()
}

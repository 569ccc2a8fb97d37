package model

// DailyScoreSummary is the read-side rollup of one calendar day's entries.
// It is recomputed on demand and never stored.
type DailyScoreSummary struct {
	Date              string      `json:"date"`
	ScoreValue        int         `json:"score_value"`
	AverageColorValue float64     `json:"average_color_value"`
	CountedAnswers    int         `json:"counted_answers"`
	TotalEntries      int         `json:"total_entries"`
	ExcludedEntries   int         `json:"excluded_entries"`
	Distribution      map[int]int `json:"distribution"`
	// NoEntries is set when the store returned nothing for the date, so a
	// ScoreValue of 0 must not be read as a bad day.
	NoEntries bool `json:"no_entries"`
}

// HasScore reports whether at least one answer was counted.
func (s DailyScoreSummary) HasScore() bool {
	return s.CountedAnswers > 0
}

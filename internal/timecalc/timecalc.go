package timecalc

import (
	"fmt"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// Hour boundaries of the time-of-day buckets: morning until noon, afternoon
// until 18:00, evening for the rest of the day.
const (
	afternoonFrom = 12
	eveningFrom   = 18
)

// Bucket returns the time-of-day bucket t falls in.
func Bucket(t time.Time) model.TimeOfDay {
	switch h := t.Hour(); {
	case h < afternoonFrom:
		return model.Morning
	case h < eveningFrom:
		return model.Afternoon
	default:
		return model.Evening
	}
}

// DateKey formats t as the calendar date used to group entries.
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDuration formats a duration as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// DaysOfWeek returns the seven date keys of the ISO week containing t.
func DaysOfWeek(t time.Time) []string {
	monday, _ := WeekRange(t)
	days := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, DateKey(monday.AddDate(0, 0, i)))
	}
	return days
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

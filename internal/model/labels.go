package model

import "strings"

// QuestionKind describes how a question is answered.
type QuestionKind string

const (
	KindOpen           QuestionKind = "open"
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindMemo           QuestionKind = "memo"
	KindMedia          QuestionKind = "media"
)

// Valid reports whether k is one of the four known kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindOpen, KindMultipleChoice, KindMemo, KindMedia:
		return true
	}
	return false
}

// ParseKind maps a case-insensitive name onto a QuestionKind.
// "choice" and "mc" are accepted as shorthands for multiple_choice.
func ParseKind(s string) (QuestionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return KindOpen, true
	case "multiple_choice", "choice", "mc":
		return KindMultipleChoice, true
	case "memo":
		return KindMemo, true
	case "media":
		return KindMedia, true
	}
	return "", false
}

// Color is the qualitative grade of an answer, green being best.
type Color string

const (
	Green   Color = "green"
	Yellow  Color = "yellow"
	Orange  Color = "orange"
	Red     Color = "red"
	DarkRed Color = "darkred"
)

// Colors lists all labels from best to worst.
var Colors = []Color{Green, Yellow, Orange, Red, DarkRed}

// ParseColor maps a case-insensitive name onto a Color.
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Colors {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// TimeOfDay is the coarse wall-clock bucket an answer was given in.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// ParseTimeOfDay maps a case-insensitive name onto a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	switch t := TimeOfDay(strings.ToLower(strings.TrimSpace(s))); t {
	case Morning, Afternoon, Evening:
		return t, true
	}
	return "", false
}

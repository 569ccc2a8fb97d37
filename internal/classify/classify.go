// Package classify assigns a color label to one answered question.
package classify

import (
	"strconv"
	"strings"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/phrases"
)

// ordinal maps an option count onto the colors for index 0 (best) onwards.
// Counts of five and above share the last row.
var ordinal = map[int][]model.Color{
	2: {model.Green, model.Red},
	3: {model.Green, model.Yellow, model.Red},
	4: {model.Green, model.Yellow, model.Orange, model.Red},
	5: {model.Green, model.Yellow, model.Orange, model.Red, model.DarkRed},
}

var weights = map[model.Color]int{
	model.Green:   5,
	model.Yellow:  3,
	model.Orange:  2,
	model.Red:     1,
	model.DarkRed: 0,
}

// Weight returns the numeric value of a color. Unknown labels weigh the same
// as yellow.
func Weight(c model.Color) int {
	if w, ok := weights[c]; ok {
		return w
	}
	return weights[model.Yellow]
}

// Classifier classifies answers against a phrase table.
type Classifier struct {
	Phrases *phrases.Table
}

// New returns a Classifier using t, or the embedded table when t is nil.
func New(t *phrases.Table) Classifier {
	if t == nil {
		t = phrases.Default()
	}
	return Classifier{Phrases: t}
}

// Classify uses the embedded phrase table.
func Classify(question, answer string, options []string, kind model.QuestionKind) model.Color {
	return New(nil).Classify(question, answer, options, kind)
}

// Classify maps an answer onto a color. Missing or ambiguous data resolves
// to yellow; it never fails.
func (c Classifier) Classify(question, answer string, options []string, kind model.QuestionKind) model.Color {
	if c.Phrases.IsNeutral(question) {
		return model.Yellow
	}
	switch kind {
	case model.KindOpen, model.KindMedia:
		return model.Yellow
	case model.KindMemo:
		return model.Green
	}
	if len(options) == 0 {
		return model.Yellow
	}
	idx := indexOf(options, answer)
	if idx < 0 {
		return model.Yellow
	}
	if c.Phrases.IsNegative(question) || IsNumericScale(options) {
		idx = len(options) - 1 - idx
	}
	return colorAt(idx, len(options))
}

// IsNumericScale reports whether options form a rating scale: more than two
// options, each an integer.
func IsNumericScale(options []string) bool {
	if len(options) <= 2 {
		return false
	}
	for _, o := range options {
		if _, err := strconv.Atoi(strings.TrimSpace(o)); err != nil {
			return false
		}
	}
	return true
}

func indexOf(options []string, answer string) int {
	for i, o := range options {
		if o == answer {
			return i
		}
	}
	return -1
}

func colorAt(idx, n int) model.Color {
	if n > 5 {
		n = 5
	}
	row, ok := ordinal[n]
	if !ok {
		// a single option has no scale to rank against
		return model.Yellow
	}
	if idx >= len(row) {
		return model.DarkRed
	}
	return row[idx]
}

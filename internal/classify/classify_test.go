package classify_test

import (
	"testing"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

const plainQuestion = "Heb je je trading plan gevolgd?"

func TestOrdinalTable(t *testing.T) {
	tests := []struct {
		options []string
		want    []model.Color
	}{
		{[]string{"Ja", "Nee"}, []model.Color{model.Green, model.Red}},
		{[]string{"Ja", "Deels", "Nee"}, []model.Color{model.Green, model.Yellow, model.Red}},
		{[]string{"Altijd", "Vaak", "Soms", "Nooit"}, []model.Color{model.Green, model.Yellow, model.Orange, model.Red}},
		{[]string{"A", "B", "C", "D", "E"}, []model.Color{model.Green, model.Yellow, model.Orange, model.Red, model.DarkRed}},
		{[]string{"A", "B", "C", "D", "E", "F", "G"}, []model.Color{model.Green, model.Yellow, model.Orange, model.Red, model.DarkRed, model.DarkRed, model.DarkRed}},
	}
	for _, tt := range tests {
		for i, opt := range tt.options {
			got := classify.Classify(plainQuestion, opt, tt.options, model.KindMultipleChoice)
			if got != tt.want[i] {
				t.Errorf("Classify(%d options, index %d) = %s, want %s", len(tt.options), i, got, tt.want[i])
			}
		}
	}
}

func TestReversalSymmetry(t *testing.T) {
	negative := "Heb je FOMO gevoeld?"
	optionSets := [][]string{
		{"Ja", "Nee"},
		{"Ja", "Een beetje", "Nee"},
		{"Heel erg", "Erg", "Een beetje", "Niet"},
		{"A", "B", "C", "D", "E"},
	}
	for _, opts := range optionSets {
		n := len(opts)
		for i := range opts {
			got := classify.Classify(negative, opts[i], opts, model.KindMultipleChoice)
			want := classify.Classify(plainQuestion, opts[n-1-i], opts, model.KindMultipleChoice)
			if got != want {
				t.Errorf("negative %v index %d = %s, counterpart index %d = %s", opts, i, got, n-1-i, want)
			}
		}
	}
}

func TestIdempotent(t *testing.T) {
	opts := []string{"1", "2", "3", "4", "5"}
	for _, a := range opts {
		first := classify.Classify("Hoe gedisciplineerd was je?", a, opts, model.KindMultipleChoice)
		second := classify.Classify("Hoe gedisciplineerd was je?", a, opts, model.KindMultipleChoice)
		if first != second {
			t.Errorf("Classify(%q) not stable: %s then %s", a, first, second)
		}
	}
}

func TestKindRules(t *testing.T) {
	opts := []string{"Ja", "Nee"}
	for _, answer := range []string{"Ja", "Nee", "iets anders", ""} {
		if got := classify.Classify("Ik sta achter mijn plan", answer, opts, model.KindMemo); got != model.Green {
			t.Errorf("memo answer %q = %s, want green", answer, got)
		}
		if got := classify.Classify(plainQuestion, answer, opts, model.KindOpen); got != model.Yellow {
			t.Errorf("open answer %q = %s, want yellow", answer, got)
		}
		if got := classify.Classify(plainQuestion, answer, opts, model.KindMedia); got != model.Yellow {
			t.Errorf("media answer %q = %s, want yellow", answer, got)
		}
	}
}

func TestNeutralBeatsKind(t *testing.T) {
	opts := []string{"Ja", "Nee"}
	q := "Hoe zijn de marktomstandigheden?"
	for _, kind := range []model.QuestionKind{model.KindMultipleChoice, model.KindMemo, model.KindOpen} {
		if got := classify.Classify(q, "Nee", opts, kind); got != model.Yellow {
			t.Errorf("neutral question with kind %s = %s, want yellow", kind, got)
		}
	}
}

func TestFailNeutral(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		options []string
	}{
		{"no options", "Ja", nil},
		{"answer not in options", "Misschien", []string{"Ja", "Nee"}},
		{"case differs", "ja", []string{"Ja", "Nee"}},
		{"single option", "Ja", []string{"Ja"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.Classify(plainQuestion, tt.answer, tt.options, model.KindMultipleChoice); got != model.Yellow {
				t.Errorf("got %s, want yellow", got)
			}
		})
	}
}

func TestScenarios(t *testing.T) {
	yesNo := []string{"Ja (5 pts)", "Nee (1 pt)"}
	if got := classify.Classify(plainQuestion, "Ja (5 pts)", yesNo, model.KindMultipleChoice); got != model.Green {
		t.Errorf("plain yes = %s, want green", got)
	}
	if got := classify.Classify("Heb je FOMO gevoeld?", "Ja (5 pts)", yesNo, model.KindMultipleChoice); got != model.Red {
		t.Errorf("FOMO yes = %s, want red", got)
	}

	scale := []string{"1", "2", "3", "4", "5"}
	if got := classify.Classify("Hoe gedisciplineerd was je?", "5", scale, model.KindMultipleChoice); got != model.Green {
		t.Errorf("scale 5 = %s, want green", got)
	}
	if got := classify.Classify("Hoe gedisciplineerd was je?", "1", scale, model.KindMultipleChoice); got != model.DarkRed {
		t.Errorf("scale 1 = %s, want darkred", got)
	}
}

func TestNegativeScaleReversedOnce(t *testing.T) {
	scale := []string{"1", "2", "3"}
	got := classify.Classify("Hoe impulsief handelde je?", "3", scale, model.KindMultipleChoice)
	if got != model.Green {
		t.Errorf("negative scale answer 3 = %s, want green", got)
	}
}

func TestIsNumericScale(t *testing.T) {
	tests := []struct {
		options []string
		want    bool
	}{
		{[]string{"1", "2", "3"}, true},
		{[]string{" 1", "2 ", "10"}, true},
		{[]string{"1", "2"}, false},
		{[]string{"1", "twee", "3"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := classify.IsNumericScale(tt.options); got != tt.want {
			t.Errorf("IsNumericScale(%v) = %v, want %v", tt.options, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		color model.Color
		want  int
	}{
		{model.Green, 5},
		{model.Yellow, 3},
		{model.Orange, 2},
		{model.Red, 1},
		{model.DarkRed, 0},
		{"purple", 3},
		{"", 3},
	}
	for _, tt := range tests {
		if got := classify.Weight(tt.color); got != tt.want {
			t.Errorf("Weight(%q) = %d, want %d", tt.color, got, tt.want)
		}
	}
}

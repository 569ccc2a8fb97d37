package model_test

import (
	"testing"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want model.QuestionKind
		ok   bool
	}{
		{"open", model.KindOpen, true},
		{" MC ", model.KindMultipleChoice, true},
		{"choice", model.KindMultipleChoice, true},
		{"Memo", model.KindMemo, true},
		{"media", model.KindMedia, true},
		{"essay", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := model.ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if model.QuestionKind("essay").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestParseColor(t *testing.T) {
	for _, c := range model.Colors {
		if got, ok := model.ParseColor(string(c)); !ok || got != c {
			t.Errorf("ParseColor(%q) = %q, %v", c, got, ok)
		}
	}
	if got, ok := model.ParseColor("DarkRed"); !ok || got != model.DarkRed {
		t.Errorf("ParseColor is not case-insensitive: %q, %v", got, ok)
	}
	if _, ok := model.ParseColor("purple"); ok {
		t.Error("ParseColor accepted purple")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	if got, ok := model.ParseTimeOfDay("Evening"); !ok || got != model.Evening {
		t.Errorf("ParseTimeOfDay(Evening) = %q, %v", got, ok)
	}
	if _, ok := model.ParseTimeOfDay("night"); ok {
		t.Error("ParseTimeOfDay accepted night")
	}
}

func TestHasScore(t *testing.T) {
	if (model.DailyScoreSummary{NoEntries: true}).HasScore() {
		t.Error("empty summary has a score")
	}
	if !(model.DailyScoreSummary{CountedAnswers: 1}).HasScore() {
		t.Error("summary with a counted answer has no score")
	}
}

package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	var buf bytes.Buffer
	printCSV(&buf, []model.JournalEntry{{
		Question:    "Heb je je plan gevolgd?",
		Answer:      "Ja, volledig",
		Options:     []string{"Ja, volledig", "Nee"},
		Kind:        model.KindMultipleChoice,
		Category:    "discipline",
		Color:       model.Green,
		TimeOfDay:   model.Evening,
		CreatedDate: "2026-02-27",
		CreatedAt:   time.Date(2026, 2, 27, 20, 15, 0, 0, time.UTC),
	}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row:\n%s", len(lines), buf.String())
	}
	want := `2026-02-27,evening,discipline,Heb je je plan gevolgd?,"Ja, volledig","Ja, volledig|Nee",multiple_choice,green,5,2026-02-27T20:15:00Z,`
	if lines[1] != want {
		t.Errorf("row = %s\nwant  %s", lines[1], want)
	}
}

func TestPickOption(t *testing.T) {
	tests := []struct {
		input   string
		options []string
		want    string
	}{
		{"2", []string{"Ja", "Nee"}, "Nee"},
		{" Ja ", []string{"Ja", "Nee"}, "Ja"},
		{"3", []string{"Ja", "Nee"}, "3"},
		{"4", []string{"1", "2", "3", "4", "5"}, "4"},
		{"1", []string{"0", "1-2", "3-5"}, "0"},
		{"geduld", nil, "geduld"},
	}
	for _, tt := range tests {
		if got := pickOption(tt.input, tt.options); got != tt.want {
			t.Errorf("pickOption(%q, %v) = %q, want %q", tt.input, tt.options, got, tt.want)
		}
	}
}

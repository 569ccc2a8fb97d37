package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/journal"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/score"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

func newTools(t *testing.T) *Tools {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC) }
	store := storage.NewFileStore(t.TempDir())
	scores := score.NewService(store, score.NewCache(time.Minute))
	scores.Now = now
	j := journal.New(store, scores, nil, nil)
	j.Now = now
	bank, err := questions.Default()
	if err != nil {
		t.Fatal(err)
	}
	return &Tools{Journal: j, Scores: scores, Questions: bank, Now: now}
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var text strings.Builder
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			text.WriteString(tc.Text)
		case *mcp.TextContent:
			text.WriteString(tc.Text)
		}
	}
	return text.String(), res.IsError
}

func TestPing(t *testing.T) {
	tools := newTools(t)
	if got, isErr := call(t, tools.ping, nil); got != "pong" || isErr {
		t.Errorf("ping = %q (error %v)", got, isErr)
	}
}

func TestSplitOptions(t *testing.T) {
	got := splitOptions(" Ja, Een beetje ,,Nee ")
	if diff := cmp.Diff([]string{"Ja", "Een beetje", "Nee"}, got); diff != "" {
		t.Errorf("splitOptions (-want +got):\n%s", diff)
	}
	if splitOptions("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestClassifyAnswer(t *testing.T) {
	tools := newTools(t)
	tests := []struct {
		args    map[string]any
		want    string
		wantErr bool
	}{
		{map[string]any{"question": "Heb je FOMO gevoeld?", "answer": "Nee", "options": "Ja, Nee"}, `"color":"green"`, false},
		{map[string]any{"question": "Wat heb je geleerd?", "answer": "geduld"}, `"color":"yellow"`, false},
		{map[string]any{"question": "q", "answer": "a", "kind": "essay"}, "", true},
		{map[string]any{"question": "q"}, "", true},
	}
	for _, tt := range tests {
		got, isErr := call(t, tools.classifyAnswer, tt.args)
		if isErr != tt.wantErr {
			t.Errorf("classify_answer %v: error = %v, want %v (%s)", tt.args, isErr, tt.wantErr, got)
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("classify_answer %v = %s, want it to contain %s", tt.args, got, tt.want)
		}
	}
}

func TestRecordThenScore(t *testing.T) {
	tools := newTools(t)
	for _, args := range []map[string]any{
		{"question": "Heb je je plan gevolgd?", "answer": "Ja", "options": "Ja, Nee"},
		{"question": "Heb je je plan gevolgd?", "answer": "Deels", "options": "Ja, Deels, Nee"},
		{"question": "Heb je FOMO gevoeld?", "answer": "Ja", "options": "Ja, Nee", "category": "emotion"},
	} {
		if got, isErr := call(t, tools.recordAnswer, args); isErr {
			t.Fatalf("record_answer: %s", got)
		}
	}

	got, isErr := call(t, tools.dailyScore, map[string]any{"date": "2026-02-27"})
	if isErr {
		t.Fatalf("daily_score: %s", got)
	}
	var summary struct {
		ScoreValue     int `json:"score_value"`
		CountedAnswers int `json:"counted_answers"`
	}
	if err := json.Unmarshal([]byte(got), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.ScoreValue != 60 || summary.CountedAnswers != 3 {
		t.Errorf("summary = %+v, want 60 over 3", summary)
	}

	got, _ = call(t, tools.listEntries, nil)
	var entries []map[string]any
	if err := json.Unmarshal([]byte(got), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0]["time_of_day"] != "morning" {
		t.Errorf("entries = %v", entries)
	}
}

func TestRecordRejectsEmptyAnswer(t *testing.T) {
	tools := newTools(t)
	if _, isErr := call(t, tools.recordAnswer, map[string]any{"question": "Heb je FOMO gevoeld?"}); !isErr {
		t.Error("expected a tool error")
	}
}

func TestDailyScoreBadDate(t *testing.T) {
	tools := newTools(t)
	if _, isErr := call(t, tools.dailyScore, map[string]any{"date": "yesterday"}); !isErr {
		t.Error("expected a tool error")
	}
	if got, _ := call(t, tools.listEntries, map[string]any{"date": "2026-01-01"}); got != "[]" {
		t.Errorf("empty day = %s, want []", got)
	}
}

func TestNextQuestion(t *testing.T) {
	tools := newTools(t)

	got, isErr := call(t, tools.nextQuestion, nil)
	if isErr || !strings.Contains(got, `"id":"slaap"`) {
		t.Fatalf("first morning question = %s", got)
	}

	if _, isErr := call(t, tools.recordAnswer, map[string]any{
		"question": "Hoe goed heb je geslapen?", "answer": "Goed", "options": "Goed, Redelijk, Slecht",
	}); isErr {
		t.Fatal("record failed")
	}
	got, _ = call(t, tools.nextQuestion, nil)
	if !strings.Contains(got, `"id":"motivatie"`) {
		t.Errorf("after answering slaap = %s", got)
	}

	if _, isErr := call(t, tools.nextQuestion, map[string]any{"slot": "night"}); !isErr {
		t.Error("unknown slot should be a tool error")
	}
}

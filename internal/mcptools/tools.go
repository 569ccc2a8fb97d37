// Package mcptools exposes the journal to MCP clients over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/journal"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/score"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

// Tools holds what the tool handlers need.
type Tools struct {
	Journal   *journal.Service
	Scores    *score.Service
	Questions *questions.Bank
	Now       func() time.Time
}

func (t *Tools) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// NewServer builds an MCP server with every journal tool registered.
func NewServer(t *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tjb",
		version,
		server.WithLogging(),
		server.WithRecovery(),
	)
	t.Register(s)
	return s
}

// Serve runs the stdio loop until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check the journal server is alive."),
	), t.ping)

	s.AddTool(mcp.NewTool("classify_answer",
		mcp.WithDescription("Grades an answer green, yellow, orange, red or darkred without storing it."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question text as it was asked.")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The chosen option or free text.")),
		mcp.WithString("options", mcp.Description("Optional comma-separated options, best first.")),
		mcp.WithString("kind", mcp.Description("open, multiple_choice, memo or media. Defaults to multiple_choice when options are given.")),
	), t.classifyAnswer)

	s.AddTool(mcp.NewTool("record_answer",
		mcp.WithDescription("Classifies and stores an answer, then returns the refreshed daily score."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question text as it was asked.")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The chosen option or free text.")),
		mcp.WithString("options", mcp.Description("Optional comma-separated options, best first.")),
		mcp.WithString("kind", mcp.Description("open, multiple_choice, memo or media.")),
		mcp.WithString("category", mcp.Description("Optional category such as emotion or risk.")),
		mcp.WithString("time_of_day", mcp.Description("Optional morning, afternoon or evening. Defaults to the current slot.")),
	), t.recordAnswer)

	s.AddTool(mcp.NewTool("daily_score",
		mcp.WithDescription("Returns the 0-100 score and color distribution for a day."),
		mcp.WithString("date", mcp.Description("Optional date as YYYY-MM-DD. Defaults to today.")),
	), t.dailyScore)

	s.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("Lists the journal entries of a day in creation order."),
		mcp.WithString("date", mcp.Description("Optional date as YYYY-MM-DD. Defaults to today.")),
	), t.listEntries)

	s.AddTool(mcp.NewTool("next_question",
		mcp.WithDescription("Returns the next unanswered question of today's slot."),
		mcp.WithString("slot", mcp.Description("Optional morning, afternoon or evening. Defaults to the current slot.")),
	), t.nextQuestion)
}

func stringArg(req mcp.CallToolRequest, name string) string {
	v, _ := req.Params.Arguments[name].(string)
	return strings.TrimSpace(v)
}

// splitOptions turns "Ja, Nee" into ["Ja", "Nee"].
func splitOptions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *Tools) date(req mcp.CallToolRequest) (string, error) {
	d := stringArg(req, "date")
	if d == "" {
		return timecalc.DateKey(t.now()), nil
	}
	if _, err := timecalc.ParseDate(d, time.UTC); err != nil {
		return "", err
	}
	return d, nil
}

func (t *Tools) ping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong"), nil
}

func (t *Tools) classifyAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, answer := stringArg(req, "question"), stringArg(req, "answer")
	if question == "" || answer == "" {
		return mcp.NewToolResultError("'question' and 'answer' are required and must be non-empty strings."), nil
	}
	options := splitOptions(stringArg(req, "options"))
	kind := model.KindMultipleChoice
	if k := stringArg(req, "kind"); k != "" {
		parsed, ok := model.ParseKind(k)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown question kind %q.", k)), nil
		}
		kind = parsed
	} else if len(options) == 0 {
		kind = model.KindOpen
	}
	c := t.Journal.Classifier.Classify(question, answer, options, kind)
	return jsonResult(map[string]any{"color": c, "weight": classify.Weight(c)})
}

func (t *Tools) recordAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := journal.Answer{
		Question:  stringArg(req, "question"),
		Answer:    stringArg(req, "answer"),
		Options:   splitOptions(stringArg(req, "options")),
		Category:  stringArg(req, "category"),
		TimeOfDay: model.TimeOfDay(strings.ToLower(stringArg(req, "time_of_day"))),
	}
	if k := stringArg(req, "kind"); k != "" {
		parsed, ok := model.ParseKind(k)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown question kind %q.", k)), nil
		}
		a.Kind = parsed
	}

	res, err := t.Journal.Record(ctx, a)
	var perr *journal.PersistError
	switch {
	case errors.As(err, &perr):
		msg := fmt.Sprintf("Answer graded %s but not stored: %v", perr.Entry.Color, perr.Err)
		if perr.Queued {
			msg += " (queued, run `tjb sync` later)"
		}
		return mcp.NewToolResultError(msg), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := map[string]any{"entry": res.Entry}
	if res.ScoreErr != nil {
		out["score_error"] = "score unavailable"
	} else {
		out["summary"] = res.Summary
	}
	return jsonResult(out)
}

func (t *Tools) dailyScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := t.date(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := t.Scores.ForDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read journal for %s: %v", date, err)), nil
	}
	return jsonResult(summary)
}

func (t *Tools) listEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := t.date(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := t.Scores.Entries(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read journal for %s: %v", date, err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(entries)
}

func (t *Tools) nextQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tod := timecalc.Bucket(t.now())
	if v := stringArg(req, "slot"); v != "" {
		parsed, ok := model.ParseTimeOfDay(v)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown slot %q.", v)), nil
		}
		tod = parsed
	}
	entries, err := t.Scores.Entries(ctx, timecalc.DateKey(t.now()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read today's journal: %v", err)), nil
	}
	q, ok := t.Questions.Next(tod, t.Questions.Answered(entries))
	if !ok {
		return jsonResult(map[string]any{"done": true, "slot": tod})
	}
	return jsonResult(map[string]any{"done": false, "slot": tod, "question": q})
}

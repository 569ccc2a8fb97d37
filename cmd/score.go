package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/format"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

var (
	scoreDate   string
	scoreWeek   bool
	scoreFormat string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the daily score, or every day of the week",
	Args:  cobra.NoArgs,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "Date as YYYY-MM-DD (default today)")
	scoreCmd.Flags().BoolVar(&scoreWeek, "week", false, "Score every day of the week containing --date")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "table", "Output format: table, md, json")
}

// resolveDate parses --date in the journal timezone, defaulting to now.
func resolveDate(a *app, s string) (time.Time, error) {
	if s == "" {
		return a.now(), nil
	}
	t, err := timecalc.ParseDate(s, a.loc)
	if err != nil {
		return time.Time{}, usageError("invalid --date: %v", err)
	}
	return t, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	var mode format.Mode
	if scoreFormat != "json" {
		m, err := format.ParseMode(scoreFormat)
		if err != nil {
			return usageError("%v (want table, md or json)", err)
		}
		mode = m
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := resolveDate(a, scoreDate)
	if err != nil {
		return err
	}

	if scoreWeek {
		days, err := a.scores.Week(cmd.Context(), day)
		if err != nil {
			return storageError(err)
		}
		if scoreFormat == "json" {
			return printJSON(map[string]any{"week": timecalc.ISOWeekLabel(day), "days": days})
		}
		fmt.Println(format.Week(mode, timecalc.ISOWeekLabel(day), days))
		return nil
	}

	date := timecalc.DateKey(day)
	s, err := a.scores.ForDate(cmd.Context(), date)
	if err != nil {
		return storageError(err)
	}
	if scoreFormat == "json" {
		return printJSON(s)
	}
	printSummary(mode, date, s)
	return nil
}

func printSummary(mode format.Mode, date string, s model.DailyScoreSummary) {
	if s.NoEntries {
		fmt.Printf("No entries for %s.\n", date)
		return
	}
	fmt.Println(format.Summary(mode, s))
}

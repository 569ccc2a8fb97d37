package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/format"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

var (
	exportDate   string
	exportWeek   bool
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Date as YYYY-MM-DD (default today)")
	exportCmd.Flags().BoolVar(&exportWeek, "week", false, "Export every day of the week containing --date")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "md":
	default:
		return usageError("unknown --format %q (want csv, json or md)", exportFormat)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := resolveDate(a, exportDate)
	if err != nil {
		return err
	}
	dates := []string{timecalc.DateKey(day)}
	if exportWeek {
		dates = timecalc.DaysOfWeek(day)
	}

	var entries []model.JournalEntry
	for _, d := range dates {
		es, err := a.scores.Entries(cmd.Context(), d)
		if err != nil {
			return storageError(err)
		}
		entries = append(entries, es...)
	}

	switch exportFormat {
	case "json":
		if entries == nil {
			entries = []model.JournalEntry{}
		}
		return printJSON(entries)
	case "md":
		fmt.Println(format.Entries(format.Markdown, entries))
	default:
		printCSV(os.Stdout, entries)
	}
	return nil
}

func printCSV(w io.Writer, entries []model.JournalEntry) {
	fmt.Fprintln(w, "date,time_of_day,category,question,answer,options,kind,color,weight,created_at,media_url")
	for _, e := range entries {
		mediaURL := ""
		if e.Media != nil {
			mediaURL = e.Media.URL
		}
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%d,%s,%s\n",
			csvEscape(e.CreatedDate),
			csvEscape(string(e.TimeOfDay)),
			csvEscape(e.Category),
			csvEscape(e.Question),
			csvEscape(e.Answer),
			csvEscape(strings.Join(e.Options, "|")),
			csvEscape(string(e.Kind)),
			csvEscape(string(e.Color)),
			classify.Weight(e.Color),
			csvEscape(e.CreatedAt.Format(time.RFC3339)),
			csvEscape(mediaURL),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

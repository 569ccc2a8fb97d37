package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/format"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

var (
	listDate   string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries of a day",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Date as YYYY-MM-DD (default today)")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, md")
}

func runList(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(listFormat)
	if err != nil {
		return usageError("%v (want table or md)", err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := resolveDate(a, listDate)
	if err != nil {
		return err
	}
	date := timecalc.DateKey(day)

	entries, err := a.scores.Entries(cmd.Context(), date)
	if err != nil {
		return storageError(err)
	}
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Println(date)
	fmt.Println(format.Entries(mode, entries))
	return nil
}

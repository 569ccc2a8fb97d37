package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/format"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
)

var (
	questionsSlot   string
	questionsFormat string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Show the question bank",
	Args:  cobra.NoArgs,
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().StringVar(&questionsSlot, "slot", "", "Only questions of morning, afternoon or evening")
	questionsCmd.Flags().StringVar(&questionsFormat, "format", "table", "Output format: table, md")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(questionsFormat)
	if err != nil {
		return usageError("%v (want table or md)", err)
	}

	bank, err := questions.Default()
	if err != nil {
		return err
	}
	if p := cfg.Journal.QuestionsFile; p != "" {
		if bank, err = questions.LoadFile(expandHome(p)); err != nil {
			return usageError("%v", err)
		}
	}

	qs := bank.Questions
	if questionsSlot != "" {
		tod, ok := model.ParseTimeOfDay(questionsSlot)
		if !ok {
			return usageError("unknown --slot %q (want morning, afternoon or evening)", questionsSlot)
		}
		qs = bank.ForSlot(tod)
	}

	tb := format.NewTable(mode)
	tb.Header("ID", "Category", "Kind", "Question", "Options", "Slots")
	for _, q := range qs {
		slots := make([]string, len(q.Slots))
		for i, s := range q.Slots {
			slots[i] = string(s)
		}
		tb.Row(q.ID, q.Category, string(q.Kind), format.Truncate(q.Text, 48),
			strings.Join(q.Options, ", "), strings.Join(slots, ", "))
	}
	tb.Columns(format.ColumnConfig{Number: 5, MaxWidth: 40})
	fmt.Println(tb.String())
	return nil
}

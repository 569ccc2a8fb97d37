package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/journal"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
)

var (
	answerQuestionID string
	answerQuestion   string
	answerText       string
	answerOptions    string
	answerKind       string
	answerCategory   string
	answerSlot       string
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Record an answer and show the updated daily score",
	Example: `  tjb answer --question-id fomo --answer Nee
  tjb answer --question "Heb je je plan gevolgd?" --answer Deels --options "Ja,Deels,Nee"`,
	Args: cobra.NoArgs,
	RunE: runAnswer,
}

func init() {
	f := answerCmd.Flags()
	f.StringVar(&answerQuestionID, "question-id", "", "Answer a question from the bank by id")
	f.StringVar(&answerQuestion, "question", "", "Free question text")
	f.StringVar(&answerText, "answer", "", "The answer (required)")
	f.StringVar(&answerOptions, "options", "", "Comma-separated options, best first")
	f.StringVar(&answerKind, "kind", "", "open, multiple_choice, memo or media")
	f.StringVar(&answerCategory, "category", "", "Category such as emotion or risk")
	f.StringVar(&answerSlot, "slot", "", "morning, afternoon or evening (default: from the clock)")
	answerCmd.MarkFlagsMutuallyExclusive("question-id", "question")
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

// answerFromQuestion fills the answer's question fields from the bank.
func answerFromQuestion(q questions.Question, text string) journal.Answer {
	return journal.Answer{
		Question: q.Text,
		Answer:   text,
		Options:  q.Options,
		Kind:     q.Kind,
		Category: q.Category,
	}
}

func runAnswer(cmd *cobra.Command, args []string) error {
	if answerQuestionID == "" && answerQuestion == "" {
		return usageError("one of --question-id or --question is required")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var ans journal.Answer
	if answerQuestionID != "" {
		q, err := a.bank.Get(answerQuestionID)
		if err != nil {
			return usageError("%v", err)
		}
		ans = answerFromQuestion(q, answerText)
	} else {
		ans = journal.Answer{
			Question: answerQuestion,
			Answer:   answerText,
			Options:  splitOptions(answerOptions),
			Category: answerCategory,
		}
		if answerKind != "" {
			k, ok := model.ParseKind(answerKind)
			if !ok {
				return usageError("unknown --kind %q (want open, multiple_choice, memo or media)", answerKind)
			}
			ans.Kind = k
		}
	}
	if answerSlot != "" {
		tod, ok := model.ParseTimeOfDay(answerSlot)
		if !ok {
			return usageError("unknown --slot %q (want morning, afternoon or evening)", answerSlot)
		}
		ans.TimeOfDay = tod
	}
	return record(cmd, a, ans)
}

// record stores ans and prints the grade plus the day's score.
func record(cmd *cobra.Command, a *app, ans journal.Answer) error {
	res, err := a.journal.Record(cmd.Context(), ans)
	var perr *journal.PersistError
	switch {
	case errors.Is(err, journal.ErrInvalid):
		return usageError("%v", err)
	case errors.As(err, &perr):
		fmt.Printf("Graded %s, but the entry could not be stored.\n", perr.Entry.Color)
		if perr.Queued {
			fmt.Println("It was queued; run `tjb sync` to retry.")
		}
		return storageError(perr)
	case err != nil:
		return storageError(err)
	}

	fmt.Printf("Recorded: %s (%s)\n", res.Color, res.Entry.TimeOfDay)
	if res.ScoreErr != nil {
		fmt.Println("Score unavailable: the journal could not be read back.")
		return nil
	}
	if res.Summary.HasScore() {
		fmt.Printf("Today: %d/100 over %d answers\n", res.Summary.ScoreValue, res.Summary.CountedAnswers)
	}
	return nil
}

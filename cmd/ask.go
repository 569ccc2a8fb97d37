package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

var askSlot string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask the next unanswered question of the current slot",
	Long: `ask prints the next question of the slot that has not been answered today
and reads the answer from stdin. Options can be picked by number.`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSlot, "slot", "", "morning, afternoon or evening (default: from the clock)")
}

// pickOption maps "2" onto the second option; anything else is returned as typed.
func pickOption(input string, options []string) string {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) && !isOption(input, options) {
		return options[n-1]
	}
	return input
}

func isOption(s string, options []string) bool {
	for _, o := range options {
		if strings.EqualFold(o, s) {
			return true
		}
	}
	return false
}

func printQuestion(q questions.Question) {
	fmt.Println(q.Text)
	for i, o := range q.Options {
		fmt.Printf("  %d) %s\n", i+1, o)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	tod := timecalc.Bucket(a.now())
	if askSlot != "" {
		var ok bool
		if tod, ok = model.ParseTimeOfDay(askSlot); !ok {
			return usageError("unknown --slot %q (want morning, afternoon or evening)", askSlot)
		}
	}

	entries, err := a.scores.Entries(cmd.Context(), timecalc.DateKey(a.now()))
	if err != nil {
		return storageError(err)
	}
	q, ok := a.bank.Next(tod, a.bank.Answered(entries))
	if !ok {
		fmt.Printf("All %s questions are answered.\n", tod)
		return nil
	}

	printQuestion(q)
	fmt.Print("> ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.TrimSpace(line) == "" {
		if err != nil {
			fmt.Println()
		}
		fmt.Printf("No answer given. Answer later with: tjb answer --question-id %s --answer ...\n", q.ID)
		return nil
	}

	ans := answerFromQuestion(q, pickOption(line, q.Options))
	ans.TimeOfDay = tod
	return record(cmd, a, ans)
}

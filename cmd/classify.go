package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/phrases"
)

var (
	classifyQuestion string
	classifyAnswer   string
	classifyOptions  string
	classifyKind     string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Grade an answer without storing it",
	Example: `  tjb classify --question "Heb je FOMO gevoeld?" --answer Ja --options "Ja,Nee"
  tjb classify --question "Hoe gefocust ben je?" --answer 4 --options "1,2,3,4,5"`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&classifyQuestion, "question", "", "Question text (required)")
	f.StringVar(&classifyAnswer, "answer", "", "The answer (required)")
	f.StringVar(&classifyOptions, "options", "", "Comma-separated options, best first")
	f.StringVar(&classifyKind, "kind", "", "open, multiple_choice, memo or media (default: multiple_choice with options, else open)")
	_ = classifyCmd.MarkFlagRequired("question")
	_ = classifyCmd.MarkFlagRequired("answer")
}

func runClassify(cmd *cobra.Command, args []string) error {
	options := splitOptions(classifyOptions)
	kind := model.KindOpen
	if len(options) > 0 {
		kind = model.KindMultipleChoice
	}
	if classifyKind != "" {
		k, ok := model.ParseKind(classifyKind)
		if !ok {
			return usageError("unknown --kind %q (want open, multiple_choice, memo or media)", classifyKind)
		}
		kind = k
	}

	table := phrases.Default()
	if p := cfg.Journal.PhrasesFile; p != "" {
		t, err := phrases.LoadFile(expandHome(p))
		if err != nil {
			return usageError("%v", err)
		}
		table = t
	}

	c := classify.New(table).Classify(classifyQuestion, classifyAnswer, options, kind)
	fmt.Printf("%s (weight %d)\n", c, classify.Weight(c))
	return nil
}

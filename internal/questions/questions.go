// Package questions is the bank of scheduled journal questions.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

//go:embed questions.yaml
var defaultYAML []byte

// ErrNotFound is returned for an unknown question id.
var ErrNotFound = errors.New("question not found")

// Question is one entry of the bank.
type Question struct {
	ID       string             `yaml:"id" json:"id"`
	Text     string             `yaml:"text" json:"text"`
	Category string             `yaml:"category" json:"category"`
	Kind     model.QuestionKind `yaml:"kind" json:"kind"`
	Options  []string           `yaml:"options,omitempty" json:"options,omitempty"`
	Slots    []model.TimeOfDay  `yaml:"slots" json:"slots"`
}

// Bank is an ordered list of questions.
type Bank struct {
	Version   int        `yaml:"version"`
	Questions []Question `yaml:"questions"`
}

// Default parses the embedded bank.
func Default() (*Bank, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a bank.
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadFile reads a bank from disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks ids are unique, kinds and slots are known, and every
// multiple-choice question has at least two options.
func (b *Bank) Validate() error {
	seen := map[string]bool{}
	for i, q := range b.Questions {
		switch {
		case q.ID == "":
			return fmt.Errorf("question %d has no id", i)
		case seen[q.ID]:
			return fmt.Errorf("duplicate question id %q", q.ID)
		case q.Text == "":
			return fmt.Errorf("question %q has no text", q.ID)
		case !q.Kind.Valid():
			return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		case q.Kind == model.KindMultipleChoice && len(q.Options) < 2:
			return fmt.Errorf("question %q needs at least two options", q.ID)
		case len(q.Slots) == 0:
			return fmt.Errorf("question %q is not scheduled in any slot", q.ID)
		}
		for _, s := range q.Slots {
			if _, ok := model.ParseTimeOfDay(string(s)); !ok {
				return fmt.Errorf("question %q has unknown slot %q", q.ID, s)
			}
		}
		seen[q.ID] = true
	}
	return nil
}

// Get returns the question with id.
func (b *Bank) Get(id string) (Question, error) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ForSlot returns the questions scheduled in tod, in bank order.
func (b *Bank) ForSlot(tod model.TimeOfDay) []Question {
	var out []Question
	for _, q := range b.Questions {
		for _, s := range q.Slots {
			if s == tod {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

// Next returns the first question in tod whose id is not in answered.
// ok is false once the slot is complete.
func (b *Bank) Next(tod model.TimeOfDay, answered map[string]bool) (Question, bool) {
	for _, q := range b.ForSlot(tod) {
		if !answered[q.ID] {
			return q, true
		}
	}
	return Question{}, false
}

// Answered collects the question texts in entries into a lookup usable by
// Next. Entries are matched on question text since that is what is stored.
func (b *Bank) Answered(entries []model.JournalEntry) map[string]bool {
	texts := map[string]bool{}
	for _, e := range entries {
		texts[e.Question] = true
	}
	out := map[string]bool{}
	for _, q := range b.Questions {
		if texts[q.Text] {
			out[q.ID] = true
		}
	}
	return out
}

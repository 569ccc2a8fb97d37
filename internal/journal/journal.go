// Package journal records answers: it classifies them, stores the entry
// and returns the refreshed daily score.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/score"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

// ErrInvalid marks an answer that cannot be recorded as given.
var ErrInvalid = errors.New("invalid answer")

// Answer is one submitted answer.
type Answer struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Options  []string           `json:"options,omitempty"`
	Kind     model.QuestionKind `json:"kind,omitempty"`
	Category string             `json:"category,omitempty"`
	// TimeOfDay overrides the bucket derived from the submission time.
	TimeOfDay model.TimeOfDay `json:"time_of_day,omitempty"`
	Media     *model.Media    `json:"media,omitempty"`
}

// Result is what Record hands back. ScoreErr is set when the entry was
// stored but the day could not be read back for the summary.
type Result struct {
	Entry    model.JournalEntry      `json:"entry"`
	Color    model.Color             `json:"color"`
	Summary  model.DailyScoreSummary `json:"summary"`
	ScoreErr error                   `json:"-"`
}

// PersistError reports an entry that was classified but could not be
// stored. Queued is set when it was handed to the pending queue instead.
type PersistError struct {
	Entry  model.JournalEntry
	Queued bool
	Err    error
}

func (e *PersistError) Error() string {
	if e.Queued {
		return fmt.Sprintf("entry %s not stored (queued for sync): %v", e.Entry.ID, e.Err)
	}
	return fmt.Sprintf("entry %s not stored: %v", e.Entry.ID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Service ties the classifier, the store and the score together.
type Service struct {
	Classifier classify.Classifier
	Store      storage.Store
	Scores     *score.Service
	// Pending, when set, receives entries whose write failed.
	Pending *storage.Pending
	Now     func() time.Time
	Logger  *slog.Logger
	NewID   func() string
}

// New returns a Service with the default classifier, clock and id source.
func New(store storage.Store, scores *score.Service, pending *storage.Pending, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Classifier: classify.New(nil),
		Store:      store,
		Scores:     scores,
		Pending:    pending,
		Now:        time.Now,
		Logger:     logger,
		NewID:      uuid.NewString,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func validate(a *Answer) error {
	a.Question = strings.TrimSpace(a.Question)
	if a.Question == "" {
		return fmt.Errorf("%w: question is empty", ErrInvalid)
	}
	if a.Kind == "" {
		a.Kind = model.KindOpen
		if len(a.Options) > 0 {
			a.Kind = model.KindMultipleChoice
		}
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown question kind %q", ErrInvalid, a.Kind)
	}
	if a.TimeOfDay != "" {
		if _, ok := model.ParseTimeOfDay(string(a.TimeOfDay)); !ok {
			return fmt.Errorf("%w: unknown time of day %q", ErrInvalid, a.TimeOfDay)
		}
	}
	if strings.TrimSpace(a.Answer) == "" && !(a.Kind == model.KindMedia && a.Media != nil) {
		return fmt.Errorf("%w: answer is empty", ErrInvalid)
	}
	return nil
}

// Build validates a and turns it into a classified entry without storing it.
func (s *Service) Build(a Answer) (model.JournalEntry, error) {
	if err := validate(&a); err != nil {
		return model.JournalEntry{}, err
	}
	now := s.now()
	tod := a.TimeOfDay
	if tod == "" {
		tod = timecalc.Bucket(now)
	}
	return model.JournalEntry{
		ID:          s.newID(),
		Question:    a.Question,
		Answer:      a.Answer,
		Category:    a.Category,
		Kind:        a.Kind,
		Options:     a.Options,
		Color:       s.Classifier.Classify(a.Question, a.Answer, a.Options, a.Kind),
		TimeOfDay:   tod,
		CreatedDate: timecalc.DateKey(now),
		CreatedAt:   now,
		Media:       a.Media,
	}, nil
}

// Record classifies and stores a, then recomputes the day's score. A write
// failure returns a *PersistError carrying the entry; the Result still holds
// the entry and its color.
func (s *Service) Record(ctx context.Context, a Answer) (Result, error) {
	entry, err := s.Build(a)
	if err != nil {
		return Result{}, err
	}
	res := Result{Entry: entry, Color: entry.Color}
	log := s.Logger.With("id", entry.ID, "date", entry.CreatedDate)

	if err := s.Store.Append(ctx, entry); err != nil {
		if !errors.Is(err, storage.ErrWrite) {
			err = fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}
		perr := &PersistError{Entry: entry, Err: err}
		if s.Pending != nil {
			if qerr := s.Pending.Add(entry); qerr != nil {
				log.Error("could not queue entry", "error", qerr)
			} else {
				perr.Queued = true
			}
		}
		log.Error("entry not stored", "queued", perr.Queued, "error", err)
		return res, perr
	}
	log.Info("entry stored", "color", entry.Color, "kind", entry.Kind)

	if s.Scores == nil {
		return res, nil
	}
	s.Scores.Invalidate()
	summary, err := s.Scores.ForDate(ctx, entry.CreatedDate)
	if err != nil {
		log.Warn("score unavailable after write", "error", err)
		res.ScoreErr = err
		return res, nil
	}
	res.Summary = summary
	return res, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/config"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/journal"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/logging"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/notion"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/phrases"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/retry"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/score"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/sqlstore"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

// app is the wired set of services shared by the subcommands.
type app struct {
	loc     *time.Location
	store   storage.Store
	pending *storage.Pending
	scores  *score.Service
	journal *journal.Service
	bank    *questions.Bank
	closeFn func() error
}

func (a *app) now() time.Time { return time.Now().In(a.loc) }

// Close releases the backend connection, if any.
func (a *app) Close() error {
	if a.closeFn != nil {
		return a.closeFn()
	}
	return nil
}

// expandHome turns a leading "~/" into the user's home directory.
func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// openBackend connects to the configured store. SQL schemas are brought up
// to date on open.
func openBackend(ctx context.Context, c config.Config, base string) (storage.Store, func() error, error) {
	logger := logging.New("store")
	switch c.Store.Backend {
	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn := sqlstore.DriverSQLite, c.Store.DSN
		if c.Store.Backend == config.BackendPostgres {
			driver = sqlstore.DriverPostgres
			if dsn == "" {
				return nil, nil, fmt.Errorf("store backend postgres needs a dsn (config store.dsn or %s)", config.EnvStoreDSN)
			}
		} else {
			if dsn == "" {
				dsn = filepath.Join(base, "journal.db")
			}
			dsn = expandHome(dsn)
			if dsn != ":memory:" {
				if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
					return nil, nil, fmt.Errorf("failed to create directory for database: %w", err)
				}
			}
		}
		s, err := sqlstore.Open(driver, dsn, sqlstore.Options{WAL: c.Store.WAL, Sync: c.Store.Sync}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Upgrade(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendNotion:
		cl, err := notion.NewClient(ctx, notion.Config{
			Token:      c.Notion.Token,
			DatabaseID: c.Notion.DatabaseID,
			BaseURL:    c.Notion.BaseURL,
			Logger:     logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return cl, nil, nil

	default:
		return storage.NewFileStore(base), nil, nil
	}
}

// openApp wires the store, score cache, classifier and question bank from
// the loaded config.
func openApp(ctx context.Context) (*app, error) {
	table := phrases.Default()
	if p := cfg.Journal.PhrasesFile; p != "" {
		t, err := phrases.LoadFile(expandHome(p))
		if err != nil {
			return nil, usageError("%v", err)
		}
		table = t
	}

	bank, err := questions.Default()
	if err != nil {
		return nil, err
	}
	if p := cfg.Journal.QuestionsFile; p != "" {
		if bank, err = questions.LoadFile(expandHome(p)); err != nil {
			return nil, usageError("%v", err)
		}
	}

	backend, closeFn, err := openBackend(ctx, cfg, baseDir)
	if err != nil {
		return nil, storageError(err)
	}

	logger := logging.New("journal")
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	policy := retry.DefaultPolicy
	policy.Attempts = cfg.Retry.Attempts
	policy.Initial = cfg.Retry.InitialDelay.Std()
	policy.Max = cfg.Retry.MaxDelay.Std()
	store := storage.NewRetrying(backend, policy, logging.New("retry"))

	scores := score.NewService(store, score.NewCache(cfg.Journal.CacheTTL.Std()))
	scores.Aggregator = score.NewAggregator(table)
	scores.Now = now

	pending := storage.NewPending(baseDir)
	j := journal.New(store, scores, pending, logger)
	j.Classifier = classify.New(table)
	j.Now = now

	return &app{
		loc:     loc,
		store:   store,
		pending: pending,
		scores:  scores,
		journal: j,
		bank:    bank,
		closeFn: closeFn,
	}, nil
}

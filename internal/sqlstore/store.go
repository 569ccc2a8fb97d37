package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

// DefaultPageSize is the number of rows QueryDay returns per page.
const DefaultPageSize = 100

// Store is a storage.Store backed by a SQL database.
type Store struct {
	db       *sql.DB
	driver   string
	logger   *slog.Logger
	PageSize int
}

// Open connects to the database. Call Upgrade before the first use.
func Open(driver, dsn string, opts Options, logger *slog.Logger) (*Store, error) {
	db, err := openDB(driver, dsn, opts)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, driver: driver, logger: logger, PageSize: DefaultPageSize}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) q(query string) string {
	return rebind(s.driver, query)
}

const entryColumns = `id, question, answer, category, question_kind, option_set, color_label,
time_of_day, created_date, created_at, media_kind, media_url, media_size, media_timestamp`

// Append inserts e. An entry whose ID already exists is left untouched.
func (s *Store) Append(ctx context.Context, e model.JournalEntry) error {
	options, err := json.Marshal(nonNil(e.Options))
	if err != nil {
		return fmt.Errorf("%w: encoding options: %w", storage.ErrWrite, err)
	}
	var (
		mediaKind, mediaURL string
		mediaSize, mediaTS  int64
	)
	if e.Media != nil {
		mediaKind, mediaURL, mediaSize = e.Media.Kind, e.Media.URL, e.Media.SizeBytes
		if !e.Media.Timestamp.IsZero() {
			mediaTS = e.Media.Timestamp.UnixNano()
		}
	}

	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO journal_entries (`+entryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`),
		e.ID, e.Question, e.Answer, e.Category, string(e.Kind), string(options), string(e.Color),
		string(e.TimeOfDay), e.CreatedDate, e.CreatedAt.UnixNano(), mediaKind, mediaURL, mediaSize, mediaTS)
	if err != nil {
		return fmt.Errorf("%w: inserting entry %s: %w", storage.ErrWrite, e.ID, err)
	}
	return nil
}

// QueryDay returns one page of the entries for date, oldest first. The
// cursor is the row offset of the next page.
func (s *Store) QueryDay(ctx context.Context, date, cursor string) (storage.Page, error) {
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return storage.Page{}, fmt.Errorf("%w: invalid cursor %q", storage.ErrRead, cursor)
		}
		offset = n
	}
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	// One extra row tells us whether another page follows.
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+entryColumns+` FROM journal_entries
WHERE created_date = ? ORDER BY created_at, id LIMIT ? OFFSET ?`), date, size+1, offset)
	if err != nil {
		return storage.Page{}, fmt.Errorf("%w: querying %s: %w", storage.ErrRead, date, err)
	}
	defer rows.Close()

	var page storage.Page
	for rows.Next() {
		e, warn, err := scanEntry(rows)
		if err != nil {
			return storage.Page{}, fmt.Errorf("%w: %w", storage.ErrRead, err)
		}
		if warn != nil {
			s.logger.Warn("row read in part", "date", date, "error", warn)
		}
		page.Entries = append(page.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return storage.Page{}, fmt.Errorf("%w: iterating %s: %w", storage.ErrRead, date, err)
	}
	if len(page.Entries) > size {
		page.Entries = page.Entries[:size]
		page.NextCursor = strconv.Itoa(offset + size)
	}
	return page, nil
}

// scanEntry reads the current row. An option_set that does not decode
// leaves Options nil and is reported as warn.
func scanEntry(rows *sql.Rows) (e model.JournalEntry, warn, err error) {
	var (
		kind, options, color, tod     string
		createdAt, mediaSize, mediaTS int64
		mediaKind, mediaURL           string
	)
	err = rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Category, &kind, &options, &color,
		&tod, &e.CreatedDate, &createdAt, &mediaKind, &mediaURL, &mediaSize, &mediaTS)
	if err != nil {
		return e, nil, fmt.Errorf("scanning entry: %w", err)
	}
	if jerr := json.Unmarshal([]byte(options), &e.Options); jerr != nil {
		e.Options = nil
		warn = fmt.Errorf("decoding options of entry %s: %w", e.ID, jerr)
	}
	e.Kind = model.QuestionKind(kind)
	e.Color = model.Color(color)
	e.TimeOfDay = model.TimeOfDay(tod)
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	if mediaKind != "" {
		e.Media = &model.Media{Kind: mediaKind, URL: mediaURL, SizeBytes: mediaSize}
		if mediaTS != 0 {
			e.Media.Timestamp = time.Unix(0, mediaTS).UTC()
		}
	}
	return e, warn, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

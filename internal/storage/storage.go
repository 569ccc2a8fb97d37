package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// DefaultPageSize is the number of entries FileStore returns per page.
const DefaultPageSize = 50

// BaseDir returns the root data directory (~/.tjb).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tjb"), nil
}

// FileStore keeps one JSON file per calendar day under Base.
type FileStore struct {
	Base     string
	PageSize int

	mu sync.Mutex
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{Base: base, PageSize: DefaultPageSize}
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base, date string) string {
	// date is YYYY-MM-DD
	return filepath.Join(base, date[:4], date[5:7], date[8:10]+".json")
}

func validDate(date string) bool {
	return len(date) == len(model.DateLayout) && date[4] == '-' && date[7] == '-'
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base, date string) (model.DayFile, error) {
	if !validDate(date) {
		return model.DayFile{}, fmt.Errorf("storage error: invalid date %q", date)
	}
	path := dayFilePath(base, date)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: date, Entries: []model.JournalEntry{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for its date.
func SaveDay(base string, df model.DayFile) error {
	if !validDate(df.Date) {
		return fmt.Errorf("storage error: invalid date %q", df.Date)
	}
	path := dayFilePath(base, df.Date)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	return writeJSONAtomic(path, df)
}

// writeJSONAtomic writes v to a temp file and renames it over path.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Append adds e to the file for e.CreatedDate. An entry whose ID is already
// present is left as it is, so replays are harmless.
func (s *FileStore) Append(_ context.Context, e model.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	df, err := LoadDay(s.Base, e.CreatedDate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, existing := range df.Entries {
		if e.ID != "" && existing.ID == e.ID {
			return nil
		}
	}
	df.Entries = append(df.Entries, e)
	if err := SaveDay(s.Base, df); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// QueryDay returns up to PageSize entries starting at the offset encoded in cursor.
func (s *FileStore) QueryDay(_ context.Context, date, cursor string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("%w: invalid cursor %q", ErrRead, cursor)
		}
		offset = n
	}
	df, err := LoadDay(s.Base, date)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if offset >= len(df.Entries) {
		return Page{}, nil
	}
	end := offset + size
	page := Page{}
	if end < len(df.Entries) {
		page.NextCursor = strconv.Itoa(end)
	} else {
		end = len(df.Entries)
	}
	page.Entries = append([]model.JournalEntry(nil), df.Entries[offset:end]...)
	return page, nil
}

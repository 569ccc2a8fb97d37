package storage_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

func entry(id, date string) model.JournalEntry {
	return model.JournalEntry{
		ID:          id,
		Question:    "Heb je je plan gevolgd?",
		Answer:      "Ja",
		Category:    "discipline",
		Kind:        model.KindMultipleChoice,
		Options:     []string{"Ja", "Nee"},
		Color:       model.Green,
		TimeOfDay:   model.Morning,
		CreatedDate: date,
		CreatedAt:   time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC),
	}
}

func ids(entries []model.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestLoadDayNotExist(t *testing.T) {
	base := t.TempDir()
	df, err := storage.LoadDay(base, "2026-02-27")
	if err != nil {
		t.Fatalf("LoadDay on missing file: %v", err)
	}
	if df.Date != "2026-02-27" {
		t.Errorf("LoadDay date = %q, want %q", df.Date, "2026-02-27")
	}
	if len(df.Entries) != 0 {
		t.Errorf("LoadDay entries = %d, want 0", len(df.Entries))
	}
}

func TestLoadDayInvalidDate(t *testing.T) {
	if _, err := storage.LoadDay(t.TempDir(), "yesterday"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestSaveDayAndLoadDay(t *testing.T) {
	base := t.TempDir()
	df := model.DayFile{
		Date:    "2026-02-27",
		Entries: []model.JournalEntry{entry("e1", "2026-02-27")},
	}

	if err := storage.SaveDay(base, df); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "2026", "02", "27.json")); err != nil {
		t.Errorf("expected day file on disk: %v", err)
	}

	loaded, err := storage.LoadDay(base, "2026-02-27")
	if err != nil {
		t.Fatalf("LoadDay after save: %v", err)
	}
	if diff := cmp.Diff(df, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDayCorruptBackedUp(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "2026", "02", "27.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.LoadDay(base, "2026-02-27")
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestFileStoreAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFileStore(t.TempDir())

	e := entry("e1", "2026-02-27")
	for i := 0; i < 2; i++ {
		if err := fs.Append(ctx, e); err != nil {
			t.Fatalf("Append #%d: %v", i+1, err)
		}
	}
	got, err := storage.FetchDay(ctx, fs, "2026-02-27")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
}

func TestFileStorePaging(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFileStore(t.TempDir())
	fs.PageSize = 2

	var want []string
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("e%d", i)
		want = append(want, id)
		if err := fs.Append(ctx, entry(id, "2026-02-27")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := fs.Append(ctx, entry("other-day", "2026-02-28")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	first, err := fs.QueryDay(ctx, "2026-02-27", "")
	if err != nil {
		t.Fatalf("QueryDay: %v", err)
	}
	if len(first.Entries) != 2 || first.NextCursor != "2" {
		t.Errorf("first page = %d entries, cursor %q; want 2 entries, cursor \"2\"", len(first.Entries), first.NextCursor)
	}

	got, err := storage.FetchDay(ctx, fs, "2026-02-27")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("FetchDay ids (-want +got):\n%s", diff)
	}
}

func TestFileStoreBadCursor(t *testing.T) {
	fs := storage.NewFileStore(t.TempDir())
	_, err := fs.QueryDay(context.Background(), "2026-02-27", "abc")
	if !errors.Is(err, storage.ErrRead) {
		t.Errorf("err = %v, want ErrRead", err)
	}
}

// loopingStore always hands back the same cursor.
type loopingStore struct{}

func (loopingStore) Append(context.Context, model.JournalEntry) error { return nil }
func (loopingStore) QueryDay(_ context.Context, date, _ string) (storage.Page, error) {
	return storage.Page{Entries: []model.JournalEntry{entry("x", date)}, NextCursor: "same"}, nil
}

func TestFetchDayRepeatedCursor(t *testing.T) {
	_, err := storage.FetchDay(context.Background(), loopingStore{}, "2026-02-27")
	if !errors.Is(err, storage.ErrRead) {
		t.Fatalf("err = %v, want ErrRead on repeated cursor", err)
	}
}

// pagedStore serves fixed pages, cursor i+1 following page i.
type pagedStore struct{ pages [][]model.JournalEntry }

func (pagedStore) Append(context.Context, model.JournalEntry) error { return nil }
func (p pagedStore) QueryDay(_ context.Context, _, cursor string) (storage.Page, error) {
	i := 0
	if cursor != "" {
		fmt.Sscan(cursor, &i)
	}
	page := storage.Page{Entries: p.pages[i]}
	if i+1 < len(p.pages) {
		page.NextCursor = fmt.Sprint(i + 1)
	}
	return page, nil
}

func TestFetchDayDropsRepeatedIDs(t *testing.T) {
	const day = "2026-02-27"
	retried := entry("b", day)
	retried.Answer = "Ja (opnieuw verstuurd)"
	s := pagedStore{pages: [][]model.JournalEntry{
		{entry("a", day), entry("b", day)},
		{retried, entry("", day), entry("c", day)},
		{entry("", day), entry("a", day)},
	}}

	got, err := storage.FetchDay(context.Background(), s, day)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "", "c", ""}, ids(got)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	if got[1].Answer != "Ja" {
		t.Errorf("kept answer %q, want the first copy", got[1].Answer)
	}
}

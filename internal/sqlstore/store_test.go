package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/sqlstore"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

func openMemory(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:", sqlstore.Options{WAL: true, Sync: "normal"}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Upgrade(context.Background()); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	return s
}

func sampleEntry(id string, at time.Time) model.JournalEntry {
	return model.JournalEntry{
		ID:          id,
		Question:    "Heb je FOMO gevoeld?",
		Answer:      "Nee",
		Category:    "emotion",
		Kind:        model.KindMultipleChoice,
		Options:     []string{"Ja", "Nee"},
		Color:       model.Green,
		TimeOfDay:   model.Afternoon,
		CreatedDate: at.Format(model.DateLayout),
		CreatedAt:   at,
	}
}

func TestUpgradeNewDatabase(t *testing.T) {
	s := openMemory(t)
	v, err := s.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != sqlstore.TargetSchemaVersion {
		t.Errorf("Version = %d, want %d", v, sqlstore.TargetSchemaVersion)
	}
	// A second upgrade is a no-op.
	if err := s.Upgrade(context.Background()); err != nil {
		t.Errorf("Upgrade on current schema: %v", err)
	}
}

func TestOpenRejectsBadSyncMode(t *testing.T) {
	_, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:", sqlstore.Options{Sync: "sometimes"}, nil)
	if err == nil {
		t.Fatal("expected error for invalid sync mode")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := sqlstore.Open("mysql", "x", sqlstore.Options{}, nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestAppendAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	at := time.Date(2026, 2, 27, 14, 30, 0, 0, time.UTC)
	e := sampleEntry("e1", at)
	e.Media = &model.Media{Kind: "photo", URL: "https://example.com/chart.png", SizeBytes: 2048, Timestamp: at}
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := storage.FetchDay(ctx, s, "2026-02-27")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if diff := cmp.Diff([]model.JournalEntry{e}, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestAppendDuplicateIDIgnored(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	e := sampleEntry("dup", time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append #%d: %v", i+1, err)
		}
	}
	got, err := storage.FetchDay(ctx, s, "2026-02-27")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("entries = %d, want 1", len(got))
	}
}

func TestQueryDayPaging(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	s.PageSize = 2

	base := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	var want []string
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("e%d", i)
		want = append(want, id)
		if err := s.Append(ctx, sampleEntry(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Append(ctx, sampleEntry("next-day", base.AddDate(0, 0, 1))); err != nil {
		t.Fatal(err)
	}

	page, err := s.QueryDay(ctx, "2026-02-27", "")
	if err != nil {
		t.Fatalf("QueryDay: %v", err)
	}
	if len(page.Entries) != 2 || page.NextCursor != "2" {
		t.Errorf("first page: %d entries, cursor %q", len(page.Entries), page.NextCursor)
	}

	all, err := storage.FetchDay(ctx, s, "2026-02-27")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range all {
		got = append(got, e.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}

func TestQueryDayBadCursor(t *testing.T) {
	s := openMemory(t)
	_, err := s.QueryDay(context.Background(), "2026-02-27", "-3")
	if !errors.Is(err, storage.ErrRead) {
		t.Errorf("err = %v, want ErrRead", err)
	}
}

func TestAppendWithoutSchemaIsWriteError(t *testing.T) {
	s, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:", sqlstore.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = s.Append(context.Background(), sampleEntry("x", time.Now()))
	if !errors.Is(err, storage.ErrWrite) {
		t.Errorf("err = %v, want ErrWrite", err)
	}
}

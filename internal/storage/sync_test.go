package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/retry"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

// flakyStore fails the first `failures` appends, then delegates.
type flakyStore struct {
	storage.Store
	failures int
	calls    int
}

func (f *flakyStore) Append(ctx context.Context, e model.JournalEntry) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("upstream unavailable")
	}
	return f.Store.Append(ctx, e)
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := retry.Sleep
	retry.Sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { retry.Sleep = orig })
}

func TestPendingAddListRemove(t *testing.T) {
	p := storage.NewPending(t.TempDir())

	list, err := p.List()
	if err != nil {
		t.Fatalf("List on empty queue: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List = %d entries, want 0", len(list))
	}

	for _, id := range []string{"a", "b", "a", "c"} {
		if err := p.Add(entry(id, "2026-02-27")); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}
	list, _ = p.List()
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(list)); diff != "" {
		t.Errorf("queued ids (-want +got):\n%s", diff)
	}

	if err := p.Remove("b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ = p.List()
	if diff := cmp.Diff([]string{"a", "c"}, ids(list)); diff != "" {
		t.Errorf("after Remove (-want +got):\n%s", diff)
	}
}

func TestSyncWritesAndSkips(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	target := storage.NewFileStore(t.TempDir())
	p := storage.NewPending(base)

	// "dup" already made it to the target before the queue noticed.
	if err := target.Append(ctx, entry("dup", "2026-02-27")); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"dup", "new-1", "new-2"} {
		if err := p.Add(entry(id, "2026-02-27")); err != nil {
			t.Fatal(err)
		}
	}

	result, err := storage.Sync(ctx, p, target, storage.SyncOptions{Parallel: 2})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 2 || result.Skipped != 1 || result.Errors != 0 {
		t.Errorf("result = %+v, want 2 synced, 1 skipped", result)
	}

	left, _ := p.List()
	if len(left) != 0 {
		t.Errorf("queue has %d entries after sync, want 0", len(left))
	}
	stored, _ := storage.FetchDay(ctx, target, "2026-02-27")
	if len(stored) != 3 {
		t.Errorf("target has %d entries, want 3", len(stored))
	}
}

func TestSyncKeepsFailures(t *testing.T) {
	ctx := context.Background()
	target := &flakyStore{Store: storage.NewFileStore(t.TempDir()), failures: 100}
	p := storage.NewPending(t.TempDir())
	if err := p.Add(entry("a", "2026-02-27")); err != nil {
		t.Fatal(err)
	}

	result, err := storage.Sync(ctx, p, target, storage.SyncOptions{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Errors)
	}
	left, _ := p.List()
	if len(left) != 1 {
		t.Errorf("queue has %d entries, want failed entry kept", len(left))
	}
}

func TestSyncDryRun(t *testing.T) {
	ctx := context.Background()
	target := storage.NewFileStore(t.TempDir())
	p := storage.NewPending(t.TempDir())
	if err := p.Add(entry("a", "2026-02-27")); err != nil {
		t.Fatal(err)
	}

	result, err := storage.Sync(ctx, p, target, storage.SyncOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 1 {
		t.Errorf("dry-run Synced = %d, want 1", result.Synced)
	}
	stored, _ := storage.FetchDay(ctx, target, "2026-02-27")
	if len(stored) != 0 {
		t.Errorf("dry-run wrote %d entries, want 0", len(stored))
	}
	left, _ := p.List()
	if len(left) != 1 {
		t.Errorf("dry-run emptied the queue")
	}
}

func TestRetryingStoreRecovers(t *testing.T) {
	noSleep(t)
	ctx := context.Background()
	flaky := &flakyStore{Store: storage.NewFileStore(t.TempDir()), failures: 2}
	rs := storage.NewRetrying(flaky, retry.Policy{Attempts: 3, Initial: time.Millisecond}, nil)

	if err := rs.Append(ctx, entry("a", "2026-02-27")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}
}

func TestRetryingStoreGivesUpWithErrWrite(t *testing.T) {
	noSleep(t)
	flaky := &flakyStore{Store: storage.NewFileStore(t.TempDir()), failures: 10}
	rs := storage.NewRetrying(flaky, retry.Policy{Attempts: 2, Initial: time.Millisecond}, nil)

	err := rs.Append(context.Background(), entry("a", "2026-02-27"))
	if !errors.Is(err, storage.ErrWrite) {
		t.Fatalf("err = %v, want ErrWrite", err)
	}
	if flaky.calls != 2 {
		t.Errorf("calls = %d, want 2", flaky.calls)
	}
}

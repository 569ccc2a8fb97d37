package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// Pending is an on-disk queue of classified entries whose write to the
// journal store failed. They are replayed by Sync.
type Pending struct {
	path string
	mu   sync.Mutex
}

// NewPending returns the queue stored at <base>/pending.json.
func NewPending(base string) *Pending {
	return &Pending{path: filepath.Join(base, "pending.json")}
}

func (p *Pending) load() ([]model.JournalEntry, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", p.path, err)
	}
	var entries []model.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		backupPath := p.path + ".corrupt"
		_ = os.Rename(p.path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", p.path, backupPath, err)
	}
	return entries, nil
}

func (p *Pending) save(entries []model.JournalEntry) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	return writeJSONAtomic(p.path, entries)
}

// Add queues e unless an entry with the same ID is already queued.
func (p *Pending) Add(e model.JournalEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.load()
	if err != nil {
		return err
	}
	for _, q := range entries {
		if q.ID == e.ID {
			return nil
		}
	}
	return p.save(append(entries, e))
}

// List returns the queued entries in the order they were added.
func (p *Pending) List() ([]model.JournalEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// Remove drops the entries with the given IDs from the queue.
func (p *Pending) Remove(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := entries[:0]
	for _, e := range entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	return p.save(kept)
}

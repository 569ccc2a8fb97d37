package score

import (
	"sync"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// DefaultTTL is how long a cached day stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache holds the entries of a single day. Looking up any other date is a
// miss, as is a lookup after TTL has passed or after Invalidate.
type Cache struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	date     string
	entries  []model.JournalEntry
	storedAt time.Time
	valid    bool
	// gen is bumped by Invalidate so reads that started earlier cannot
	// store what they fetched.
	gen uint64
}

// NewCache returns a Cache with the given TTL (DefaultTTL when ttl <= 0).
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{TTL: ttl, Now: time.Now}
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Get returns the cached entries for date.
func (c *Cache) Get(date string) ([]model.JournalEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.date != date {
		return nil, false
	}
	if c.now().Sub(c.storedAt) >= c.TTL {
		c.valid = false
		c.entries = nil
		return nil, false
	}
	return append([]model.JournalEntry(nil), c.entries...), true
}

// Put replaces the cached day.
func (c *Cache) Put(date string, entries []model.JournalEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = date
	c.entries = append([]model.JournalEntry(nil), entries...)
	c.storedAt = c.now()
	c.valid = true
}

// Generation returns the current invalidation count. Take it before
// reading the store and hand it to PutIfGen.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutIfGen stores entries only if no Invalidate happened since gen was
// taken. It reports whether the entries were stored.
func (c *Cache) PutIfGen(date string, gen uint64, entries []model.JournalEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.date = date
	c.entries = append([]model.JournalEntry(nil), entries...)
	c.storedAt = c.now()
	c.valid = true
	return true
}

// Invalidate drops the cached day. It is called after every write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.valid = false
	c.entries = nil
}

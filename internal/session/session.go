// Package session remembers which question a conversation is waiting on.
package session

import (
	"sync"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// DefaultTTL is how long an unanswered question stays open.
const DefaultTTL = 10 * time.Minute

// State is the question a conversation was last asked.
type State struct {
	QuestionID string             `json:"question_id"`
	Question   string             `json:"question"`
	Options    []string           `json:"options,omitempty"`
	Kind       model.QuestionKind `json:"kind"`
	Category   string             `json:"category"`
	AskedAt    time.Time          `json:"asked_at"`
}

// Store is a keyed session store.
type Store interface {
	Get(id string) (State, bool)
	Set(id string, s State)
	Expire(id string)
}

type item struct {
	state   State
	expires time.Time
}

// Memory is an in-process Store whose entries expire after TTL.
type Memory struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	items map[string]item
}

// NewMemory returns an empty Memory store (DefaultTTL when ttl <= 0).
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{TTL: ttl, Now: time.Now, items: map[string]item{}}
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Get returns the live state for id. Expired states are dropped on access.
func (m *Memory) Get(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return State{}, false
	}
	if !m.now().Before(it.expires) {
		delete(m.items, id)
		return State{}, false
	}
	return it.state, true
}

// Set stores s for id and restarts its TTL.
func (m *Memory) Set(id string, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string]item{}
	}
	m.items[id] = item{state: s, expires: m.now().Add(m.TTL)}
}

// Expire forgets id.
func (m *Memory) Expire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

// Sweep drops every expired state and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, it := range m.items {
		if !now.Before(it.expires) {
			delete(m.items, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored states, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

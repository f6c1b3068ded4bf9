// Package history keeps the chat backend's conversation log in memory.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one user message and the reply it got.
type Entry struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an ordered, process-local log safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append records an exchange and returns the stored entry.
func (s *Store) Append(user, bot string) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		User:      user,
		Bot:       bot,
		Timestamp: s.now(),
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e
}

// Last returns up to n of the most recent entries, oldest first.
// n <= 0 returns nothing.
func (s *Store) Last(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return []Entry{}
	}
	start := max(len(s.entries)-n, 0)
	out := make([]Entry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Package ratelimit holds the fixed-window hit counters behind the request limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	hits    int
	resetAt time.Time
}

// MemoryStore counts hits per key in process memory. Counters are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	length  time.Duration
	now     func() time.Time
}

func NewMemoryStore(length time.Duration) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		length:  length,
		now:     time.Now,
	}
}

// Increment records one hit for key and returns the hits so far in the current window.
func (s *MemoryStore) Increment(_ context.Context, key string) (int, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(s.length)}
		s.windows[key] = w
	}
	w.hits++

	return w.hits, w.resetAt, nil
}

// Sweep drops windows that ended before now.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

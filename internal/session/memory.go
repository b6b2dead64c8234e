package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps session histories in process memory. Each append
// refreshes the session's expiry; idle sessions are swept on later appends
// and on Len, so no background goroutine is started.
type MemoryStore struct {
	mu        sync.Mutex
	items     *cache.Cache
	max       int
	ttl       time.Duration
	lastSweep time.Time
	closed    bool
}

// NewMemoryStore creates an in-memory store capped at limit entries per
// session. A ttl of zero keeps sessions until Close.
func NewMemoryStore(limit int, ttl time.Duration) *MemoryStore {
	if limit <= 0 {
		limit = MaxHistory
	}
	exp := cache.NoExpiration
	if ttl > 0 {
		exp = ttl
	}
	return &MemoryStore{
		items:     cache.New(exp, 0),
		max:       limit,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, sessionID string, sum Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrInvalidConfig
	}
	s.sweep()

	var h []Summary
	if v, ok := s.items.Get(sessionID); ok {
		h = v.([]Summary)
	}
	h = append(h, sum)
	if len(h) > s.max {
		h = slices.Clone(h[len(h)-s.max:])
	}
	s.items.Set(sessionID, h, cache.DefaultExpiration)
	return nil
}

// History implements Store.
func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(sessionID)
	if !ok {
		return nil, nil
	}
	return slices.Clone(v.([]Summary)), nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items.DeleteExpired()
	return s.items.ItemCount()
}

// sweep drops expired sessions at most once per ttl. Callers hold mu.
func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	if now := time.Now(); now.Sub(s.lastSweep) >= s.ttl {
		s.items.DeleteExpired()
		s.lastSweep = now
	}
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.items.Flush()
	return nil
}

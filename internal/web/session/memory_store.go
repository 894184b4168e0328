package session

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory session store with a periodic expiry sweep.
type MemoryStore struct {
	sessions sync.Map
	ttl      time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type sessionEntry struct {
	mu        sync.Mutex
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates a memory store sweeping expired sessions every
// minute. A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store := &MemoryStore{
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanup()

	return store
}

// Touch records a request under the given session ID, creating the session
// when absent and refreshing its expiry. Returns a copy of the updated
// session.
func (s *MemoryStore) Touch(sessionID string) Session {
	now := time.Now()

	for {
		value, ok := s.sessions.Load(sessionID)
		if !ok {
			candidate := &sessionEntry{
				session:   Session{ID: sessionID, CreatedAt: now},
				expiresAt: now.Add(s.ttl),
			}
			// Concurrent creators converge on whichever entry got stored.
			value, _ = s.sessions.LoadOrStore(sessionID, candidate)
		}

		entry := value.(*sessionEntry)
		entry.mu.Lock()
		if !entry.expiresAt.After(now) {
			entry.mu.Unlock()
			s.sessions.CompareAndDelete(sessionID, value)
			continue
		}
		entry.session.LastSeen = now
		entry.session.Requests++
		entry.expiresAt = now.Add(s.ttl)
		session := entry.session
		entry.mu.Unlock()
		return session
	}
}

// Get retrieves a live session.
func (s *MemoryStore) Get(sessionID string) (Session, error) {
	value, ok := s.sessions.Load(sessionID)
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	entry := value.(*sessionEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.expiresAt.Before(time.Now()) {
		s.sessions.Delete(sessionID)
		return Session{}, ErrSessionNotFound
	}
	return entry.session, nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count() int {
	count := 0
	now := time.Now()
	s.sessions.Range(func(key, value interface{}) bool {
		entry := value.(*sessionEntry)
		entry.mu.Lock()
		if entry.expiresAt.After(now) {
			count++
		}
		entry.mu.Unlock()
		return true
	})
	return count
}

// Close stops the sweep goroutine and clears all sessions.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	s.sessions.Range(func(key, value interface{}) bool {
		s.sessions.Delete(key)
		return true
	})
	return nil
}

// cleanup periodically removes expired sessions.
func (s *MemoryStore) cleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			now := time.Now()
			s.sessions.Range(func(key, value interface{}) bool {
				entry := value.(*sessionEntry)
				entry.mu.Lock()
				expired := entry.expiresAt.Before(now)
				entry.mu.Unlock()
				if expired {
					s.sessions.Delete(key)
				}
				return true
			})
		}
	}
}

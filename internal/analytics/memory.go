package analytics

import (
	"context"
	"sync"
)

// MemorySink keeps the most recent events in a ring buffer. It is the
// default backend and the one tests observe.
type MemorySink struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

// NewMemorySink creates a ring of the given capacity (default 1024 when
// non-positive).
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemorySink{capacity: capacity}
}

// Record appends events, evicting the oldest beyond capacity.
func (s *MemorySink) Record(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
	if overflow := len(s.events) - s.capacity; overflow > 0 {
		s.events = s.events[overflow:]
	}
	return nil
}

// Events returns a copy of the retained events, oldest first.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Close is a no-op for the memory backend.
func (s *MemorySink) Close() error {
	return nil
}

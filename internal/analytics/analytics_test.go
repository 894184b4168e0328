package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherFlushesToSink(t *testing.T) {
	sink := NewMemorySink(16)
	d := NewDispatcher(sink, Config{BufferSize: 16, BatchSize: 2, FlushInterval: time.Hour}, zap.NewNop())

	d.Record(Event{Type: EventSearchPerformed, Query: "button"})
	d.Record(Event{Type: EventComponentFound, Component: "Button"})
	require.NoError(t, d.Close())

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventSearchPerformed, events[0].Type)
	assert.Equal(t, "Button", events[1].Component)
	assert.False(t, events[0].Time.IsZero())
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	sink := NewMemorySink(64)
	d := NewDispatcher(sink, Config{BufferSize: 64, BatchSize: 100, FlushInterval: time.Hour}, zap.NewNop())

	for i := 0; i < 10; i++ {
		d.Record(Event{Type: EventToolInvoked, Tool: "search_components"})
	}
	require.NoError(t, d.Close())
	assert.Len(t, sink.Events(), 10)
}

// blockingSink stalls Record until released, simulating a dead backend.
type blockingSink struct {
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Record(ctx context.Context, _ []Event) error {
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return ctx.Err()
}

func (s *blockingSink) Close() error {
	s.once.Do(func() { close(s.release) })
	return nil
}

func TestDispatcherNeverBlocksWhenSinkStalls(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(sink, Config{
		BufferSize:    2,
		BatchSize:     1,
		FlushInterval: time.Hour,
		FlushTimeout:  50 * time.Millisecond,
	}, zap.NewNop())
	defer d.Close()

	// The flush goroutine is stuck in the sink; Record must return
	// immediately regardless, dropping once the buffer fills.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			d.Record(Event{Type: EventToolInvoked})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a stalled sink")
	}
	assert.Greater(t, d.Dropped(), uint64(0))
}

func TestMemorySinkRingEviction(t *testing.T) {
	sink := NewMemorySink(3)
	events := []Event{
		{Component: "A"}, {Component: "B"}, {Component: "C"}, {Component: "D"},
	}
	require.NoError(t, sink.Record(context.Background(), events))

	kept := sink.Events()
	require.Len(t, kept, 3)
	assert.Equal(t, "B", kept[0].Component)
	assert.Equal(t, "D", kept[2].Component)
}

func TestEventDayBucket(t *testing.T) {
	e := Event{Time: time.Date(2026, 8, 25, 23, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2026-08-25", e.day())

	// Zero time falls back to now rather than the epoch.
	assert.NotEqual(t, "0001-01-01", Event{}.day())
}

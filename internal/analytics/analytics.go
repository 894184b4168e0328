// Package analytics is the fire-and-forget event sink for the metadata
// service. Callers hand events to a buffered dispatcher that never blocks
// and never surfaces sink failures; backends aggregate daily counters.
package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventType identifies what happened.
type EventType string

const (
	EventToolInvoked       EventType = "tool_invoked"
	EventSearchPerformed   EventType = "search_performed"
	EventComponentFound    EventType = "component_found"
	EventComponentNotFound EventType = "component_not_found"
	EventScaffoldGenerated EventType = "scaffold_generated"
)

// Event is one structured analytics record.
type Event struct {
	Type      EventType `json:"type"`
	Component string    `json:"component,omitempty"`
	Query     string    `json:"query,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	Time      time.Time `json:"time"`
}

// day returns the daily counter bucket for the event.
func (e Event) day() string {
	t := e.Time
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format("2006-01-02")
}

// Sink persists batches of events. Implementations must tolerate being
// called from a single dispatcher goroutine.
type Sink interface {
	Record(ctx context.Context, events []Event) error
	Close() error
}

// Config tunes the dispatcher.
type Config struct {
	// BufferSize is the channel capacity; a full buffer drops events.
	BufferSize int
	// BatchSize flushes when this many events have accumulated.
	BatchSize int
	// FlushInterval flushes partial batches on a timer.
	FlushInterval time.Duration
	// FlushTimeout bounds each sink call.
	FlushTimeout time.Duration
}

// DefaultConfig returns dispatcher defaults suitable for a request-serving
// process.
func DefaultConfig() Config {
	return Config{
		BufferSize:    1024,
		BatchSize:     64,
		FlushInterval: 5 * time.Second,
		FlushTimeout:  3 * time.Second,
	}
}

// Dispatcher decouples request handling from the sink. Record never blocks:
// when the buffer is full the event is dropped and counted. Sink errors are
// logged, never returned.
type Dispatcher struct {
	sink   Sink
	config Config
	logger *zap.Logger

	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

// NewDispatcher starts the background flush loop.
func NewDispatcher(sink Sink, config Config, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultConfig().FlushInterval
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = DefaultConfig().FlushTimeout
	}

	d := &Dispatcher{
		sink:   sink,
		config: config,
		logger: logger,
		events: make(chan Event, config.BufferSize),
		done:   make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Record enqueues an event without blocking. Events with a zero timestamp
// are stamped here.
func (d *Dispatcher) Record(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	select {
	case d.events <- e:
	default:
		d.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded due to a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close flushes buffered events and closes the sink. Safe to call more
// than once.
func (d *Dispatcher) Close() error {
	d.once.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
	return d.sink.Close()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, d.config.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.config.FlushTimeout)
		if err := d.sink.Record(ctx, batch); err != nil {
			d.logger.Warn("analytics sink flush failed",
				zap.Int("events", len(batch)),
				zap.Error(err),
			)
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-d.events:
			batch = append(batch, e)
			if len(batch) >= d.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-d.done:
			// Drain whatever is already buffered, then stop.
			for {
				select {
				case e := <-d.events:
					batch = append(batch, e)
					if len(batch) >= d.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

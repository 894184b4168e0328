package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS event_counts (
	day       TEXT NOT NULL,
	type      TEXT NOT NULL,
	component TEXT NOT NULL DEFAULT '',
	count     BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (day, type, component)
);`

const postgresUpsert = `
INSERT INTO event_counts (day, type, component, count) VALUES ($1, $2, $3, 1)
ON CONFLICT (day, type, component) DO UPDATE SET count = event_counts.count + 1;`

// PostgresSink aggregates events into a shared counter store, pipelining
// each flush with one SendBatch round trip.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to the given URL and ensures the schema exists.
func NewPostgresSink(ctx context.Context, url string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect analytics postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create analytics schema: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// Record sends the whole batch as one pipelined batch of upserts.
func (s *PostgresSink) Record(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(postgresUpsert, e.day(), string(e.Type), e.Component)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

package analytics

import (
	"context"
	"database/sql"
	"fmt"

	// SQLite driver for the local counter store.
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS event_counts (
	day       TEXT NOT NULL,
	type      TEXT NOT NULL,
	component TEXT NOT NULL DEFAULT '',
	count     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (day, type, component)
);`

const sqliteUpsert = `
INSERT INTO event_counts (day, type, component, count) VALUES (?, ?, ?, 1)
ON CONFLICT (day, type, component) DO UPDATE SET count = count + 1;`

// SQLiteSink aggregates events into a local counter table, batching each
// flush in one transaction.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics sqlite: %w", err)
	}
	sink, err := NewSQLiteSinkWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return sink, nil
}

// NewSQLiteSinkWithDB wraps an existing connection (used in tests with a
// mock driver).
func NewSQLiteSinkWithDB(db *sql.DB) (*SQLiteSink, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("create analytics schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Record upserts the batch inside one transaction.
func (s *SQLiteSink) Record(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.day(), string(e.Type), e.Component); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

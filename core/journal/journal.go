// Package journal keeps an append-only audit trail of dispatched updates.
// Nothing reads it back to decide what to show; page state lives only in callback payloads.
package journal

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Migrations holds the schema, applied by the database package at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that contains the files.
const MigrationsDir = "migrations"

// Entry is one dispatched update.
type Entry struct {
	UpdateID      int       `db:"update_id"`
	ChatID        int64     `db:"chat_id"`
	EventKind     string    `db:"event_kind"`
	Payload       string    `db:"payload"`
	Handler       string    `db:"handler"`
	Action        string    `db:"action"`
	TargetPage    int       `db:"target_page"`
	OutboundCount int       `db:"outbound_count"`
	CreatedAt     time.Time `db:"created_at"`
}

// Store persists entries. With the database disabled there is no store and no Recorder.
type Store interface {
	Record(ctx context.Context, e Entry) error
}

const insertEntry = `INSERT INTO dispatch_journal
	(update_id, chat_id, event_kind, payload, handler, action, target_page, outbound_count)
	VALUES (:update_id, :chat_id, :event_kind, :payload, :handler, :action, :target_page, :outbound_count)`

// SQLStore writes entries through sqlx.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Record inserts e.
func (s *SQLStore) Record(ctx context.Context, e Entry) error {
	if _, err := s.db.NamedExecContext(ctx, insertEntry, e); err != nil {
		return fmt.Errorf("journal: insert: %w", err)
	}
	return nil
}

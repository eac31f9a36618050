package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
)

var (
	_ session.Store         = (*SessionRepository)(nil)
	_ session.EventRecorder = (*SessionRepository)(nil)
)

// SessionEvent is a row of the session_events audit table.
type SessionEvent struct {
	ID        string
	Username  string
	Kind      string
	CreatedAt time.Time
}

// SessionRepository implements [session.Store] on the session key/value table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load reads the user and token entries. Missing entries yield empty strings.
func (r *SessionRepository) Load(ctx context.Context) (session.Data, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM session WHERE key IN (?, ?)", session.KeyUser, session.KeyToken)
	if err != nil {
		return session.Data{}, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	var d session.Data
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return session.Data{}, fmt.Errorf("failed to scan session entry: %w", err)
		}
		switch key {
		case session.KeyUser:
			d.Username = value
		case session.KeyToken:
			d.Token = value
		}
	}

	if err := rows.Err(); err != nil {
		return session.Data{}, fmt.Errorf("row iteration error: %w", err)
	}

	return d, nil
}

// Save upserts both entries in one transaction.
func (r *SessionRepository) Save(ctx context.Context, d session.Data) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now()
	for key, value := range map[string]string{session.KeyUser: d.Username, session.KeyToken: d.Token} {
		if _, err := tx.ExecContext(ctx, query, key, value, now); err != nil {
			return fmt.Errorf("failed to save session entry %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Clear removes every session entry.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RecordEvent appends a transition to the audit table.
func (r *SessionRepository) RecordEvent(ctx context.Context, username, kind string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO session_events (id, username, kind, created_at) VALUES (?, ?, ?, ?)",
		shared.GenerateID(), username, kind, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record session event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events first. A limit of zero or less returns all events.
func (r *SessionRepository) ListEvents(ctx context.Context, limit int) ([]SessionEvent, error) {
	query := "SELECT id, username, kind, created_at FROM session_events ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.Username, &e.Kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

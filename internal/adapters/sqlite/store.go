// Package sqlite provides a SQLite-backed implementation of the session
// store port: a keyed scratch store holding JSON values with per-entry
// expiry. One row per (session, key); values die with their TTL or when the
// session is cleared.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver registration

	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

// Store implements the session store port for SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore opens the database and runs the schema migration.
func NewStore(storagePath string) (*Store, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_values (
			session_id TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, key)
		)
	`)
	return err
}

// Close ensures the DB connection is closed gracefully.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores value as JSON under (sessionID, key). ttl <= 0 means no expiry.
func (s *Store) Put(ctx context.Context, sessionID, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session value: %w", err)
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).Unix()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, sessionID, key, raw, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}
	return nil
}

// Get loads the live value under (sessionID, key) into dest.
func (s *Store) Get(ctx context.Context, sessionID, key string, dest any) error {
	row := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM session_values WHERE session_id = ? AND key = ?",
		sessionID, key)

	var raw []byte
	var expiresAt int64
	if err := row.Scan(&raw, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return ports.ErrNoValue
		}
		return fmt.Errorf("failed to load session value: %w", err)
	}

	if expiresAt > 0 && s.now().Unix() >= expiresAt {
		_, _ = s.db.ExecContext(ctx,
			"DELETE FROM session_values WHERE session_id = ? AND key = ?", sessionID, key)
		return ports.ErrNoValue
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode session value: %w", err)
	}
	return nil
}

// Clear drops every entry belonging to the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// PurgeExpired removes every expired entry. Called periodically by the
// entrypoint, not by request handlers.
func (s *Store) PurgeExpired(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE expires_at > 0 AND expires_at <= ?", s.now().Unix()); err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return nil
}

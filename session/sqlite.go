package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteFileName = "session.db"
	sqliteTimeout  = 2 * time.Second
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS session_items (
	session_id TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	item_value TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, item_key)
)`

// SQLiteStore keeps items for many sessions in one database, keyed by session id
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

// OpenSQLite opens <dir>/session.db and ensures the schema exists
func OpenSQLite(dir, sessionID string) (*SQLiteStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("session dir is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	dsn := filepath.Join(filepath.Clean(dir), sqliteFileName) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, sessionID: sessionID}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, ErrClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT item_value FROM session_items WHERE session_id = ? AND item_key = ?`,
		s.sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select item: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_items (session_id, item_key, item_value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, item_key) DO UPDATE SET
		   item_value = excluded.item_value,
		   updated_at = excluded.updated_at`,
		s.sessionID, key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_items WHERE session_id = ? AND item_key = ?`,
		s.sessionID, key,
	); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_items WHERE session_id = ?`, s.sessionID,
	); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the database handle; later calls return ErrClosed
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

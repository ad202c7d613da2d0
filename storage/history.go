// Package storage persists the conversation history and writes research
// reports to disk.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rtui/config"
	"rtui/model"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT    NOT NULL UNIQUE,
	role       TEXT    NOT NULL,
	content    TEXT    NOT NULL,
	created_at INTEGER NOT NULL
)`

// HistoryStore is the append-only conversation log, kept in SQLite. It
// implements model.HistoryStore.
type HistoryStore struct {
	db   *sql.DB
	path string
}

// OpenHistory opens (creating if needed) <dataDir>/history.db.
func OpenHistory(ctx context.Context, dataDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dataDir, "history.db")
	store, err := openHistoryDSN(ctx, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	store.path = path

	// 0600 - the log contains the whole conversation
	if err := os.Chmod(path, 0600); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to set history permissions: %w", err)
	}
	return store, nil
}

func openHistoryDSN(ctx context.Context, dsn string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Append stores msg and returns it with its assigned id and timestamp.
func (s *HistoryStore) Append(ctx context.Context, msg model.Message) (model.Message, error) {
	if !msg.Role.Persisted() {
		return model.Message{}, fmt.Errorf("role %q is not persisted", msg.Role)
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, msg.Timestamp.UnixNano())
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to append message: %w", err)
	}
	return msg, nil
}

// Messages returns the log in insertion order.
func (s *HistoryStore) Messages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, role, content, created_at FROM messages ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var (
			m    model.Message
			role string
			ts   int64
		)
		if err := rows.Scan(&m.ID, &role, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = model.Role(role)
		m.Timestamp = time.Unix(0, ts)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return msgs, nil
}

// Clear deletes every message. Clearing an empty log succeeds.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] History cleared (%s)", s.path)
	}
	return nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite implementation of Store.
//
// It archives transcripts in a single-file database. Designed for:
//   - Local use with zero setup
//   - Single-process archives
//   - Prototyping before migrating to a shared database
//
// The store uses WAL mode for concurrent reads and a single writer
// connection, which matches SQLite's concurrency model.
//
// Example:
//
//	st, err := store.NewSQLiteStore("./consensus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
// For testing with an in-memory database use ":memory:".
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLiteStore creates a SQLite-backed store at the given path, creating
// the database file and schema on first use.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    session_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    payload    TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create transcripts table: %w", err)
	}
	return nil
}

// SaveTranscript persists a transcript as a JSON payload keyed by session
// ID, replacing any earlier transcript for the same session.
func (s *SQLiteStore) SaveTranscript(ctx context.Context, t Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	const q = `
INSERT INTO transcripts (session_id, created_at, payload) VALUES (?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET created_at=excluded.created_at, payload=excluded.payload`
	if _, err := s.db.ExecContext(ctx, q, t.SessionID, t.CreatedAt.UTC().Format(timeLayout), string(payload)); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// LoadTranscript retrieves a transcript by session ID.
func (s *SQLiteStore) LoadTranscript(ctx context.Context, sessionID string) (Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Transcript{}, fmt.Errorf("store is closed")
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM transcripts WHERE session_id = ?", sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return Transcript{}, ErrNotFound
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to load transcript: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return Transcript{}, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return t, nil
}

// ListTranscripts returns archived session IDs, most recent first.
func (s *SQLiteStore) ListTranscripts(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id FROM transcripts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

const timeLayout = "2006-01-02 15:04:05.000"

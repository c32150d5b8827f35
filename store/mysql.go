package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB implementation of Store.
//
// Designed for:
//   - Shared archives consulted by multiple processes
//   - Audit trails and compliance requirements
//   - Archives that survive process restarts
//
// Never hardcode credentials; read the DSN from the environment:
//
//	dsn := os.Getenv("MYSQL_DSN")
//	st, err := store.NewMySQLStore(dsn)
//
// The DSN (Data Source Name) format is:
//
//	[username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
//
// Example: user:pass@tcp(localhost:3306)/consensus?parseTime=true
type MySQLStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQLStore creates a MySQL-backed store, verifying the connection and
// creating the schema if it does not exist.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    session_id VARCHAR(64) PRIMARY KEY,
    created_at DATETIME(3) NOT NULL,
    payload    MEDIUMTEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create transcripts table: %w", err)
	}
	return nil
}

// SaveTranscript persists a transcript as a JSON payload keyed by session
// ID, replacing any earlier transcript for the same session.
func (s *MySQLStore) SaveTranscript(ctx context.Context, t Transcript) error {
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
ON DUPLICATE KEY UPDATE created_at=VALUES(created_at), payload=VALUES(payload)`
	if _, err := s.db.ExecContext(ctx, q, t.SessionID, t.CreatedAt.UTC(), string(payload)); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// LoadTranscript retrieves a transcript by session ID.
func (s *MySQLStore) LoadTranscript(ctx context.Context, sessionID string) (Transcript, error) {
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
func (s *MySQLStore) ListTranscripts(ctx context.Context) ([]string, error) {
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
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

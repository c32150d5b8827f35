package store

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Store.
//
// Designed for testing and short-lived processes where persistence across
// restarts is not required. Thread-safe.
type MemStore struct {
	mu          sync.RWMutex
	transcripts map[string]Transcript
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		transcripts: make(map[string]Transcript),
	}
}

// SaveTranscript stores a transcript, replacing any earlier one for the
// same session.
func (m *MemStore) SaveTranscript(_ context.Context, t Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts[t.SessionID] = t
	return nil
}

// LoadTranscript retrieves a transcript by session ID.
func (m *MemStore) LoadTranscript(_ context.Context, sessionID string) (Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transcripts[sessionID]
	if !ok {
		return Transcript{}, ErrNotFound
	}
	return t, nil
}

// ListTranscripts returns archived session IDs, most recent first.
func (m *MemStore) ListTranscripts(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.transcripts))
	for id := range m.transcripts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.transcripts[ids[i]].CreatedAt.After(m.transcripts[ids[j]].CreatedAt)
	})
	return ids, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

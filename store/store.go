// Package store provides optional persistence for finished deliberation
// transcripts.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested session ID does not exist.
var ErrNotFound = errors.New("not found")

// Store archives finished deliberation sessions.
//
// The orchestrator itself holds no persistence requirement; archival is a
// collaborator concern wired at the application boundary. Implementations:
//   - In-memory (testing, short-lived processes; see memory.go)
//   - SQLite (single-process local archive; see sqlite.go)
//   - MySQL/MariaDB (shared archive, audit trails; see mysql.go)
type Store interface {
	// SaveTranscript persists a finished session. Saving the same session
	// ID twice replaces the earlier transcript.
	SaveTranscript(ctx context.Context, t Transcript) error

	// LoadTranscript retrieves a transcript by session ID.
	// Returns ErrNotFound if the session was never archived.
	LoadTranscript(ctx context.Context, sessionID string) (Transcript, error)

	// ListTranscripts returns the archived session IDs, most recent first.
	ListTranscripts(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Transcript is the archival record of one deliberation session.
type Transcript struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`

	// Mode is the deliberation mode ("plain" or "deep").
	Mode string `json:"mode"`

	// Input is the content-plus-question blob the session analyzed.
	Input string `json:"input"`

	// Status is the terminal session state ("done" or "failed").
	Status string `json:"status"`

	// Error is the session-level failure cause, empty on success.
	Error string `json:"error,omitempty"`

	// Artifacts holds every per-agent outcome, stage by stage.
	Artifacts []ArtifactRecord `json:"artifacts"`

	// Reviews holds the peer critiques, keyed by author in record form.
	Reviews []ReviewRecord `json:"reviews,omitempty"`

	// Synthesizer is the agent that wrote the report, empty on failure.
	Synthesizer string `json:"synthesizer,omitempty"`

	// Report is the consensus text, empty on failure.
	Report string `json:"report,omitempty"`

	// CreatedAt is when the transcript was archived.
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactRecord is one agent's outcome at one stage.
type ArtifactRecord struct {
	Agent string `json:"agent"`
	Stage string `json:"stage"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ReviewRecord is one peer-critique outcome.
type ReviewRecord struct {
	Author   string `json:"author"`
	Reviewer string `json:"reviewer"`
	Critique string `json:"critique,omitempty"`
	Error    string `json:"error,omitempty"`
}

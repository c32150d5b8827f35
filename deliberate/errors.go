package deliberate

import (
	"errors"
	"fmt"
)

// ErrNoAgents indicates that a session was created with zero members.
var ErrNoAgents = errors.New("no agents configured")

// ErrDuplicateAgent indicates that two members share the same identity.
var ErrDuplicateAgent = errors.New("duplicate agent identity")

// ErrInsufficientAgents indicates that deep mode was requested with fewer
// than two configured agents. Checked before any completion call is made.
var ErrInsufficientAgents = errors.New("deep mode requires at least two agents")

// ErrNoValidArtifacts indicates that synthesis had nothing to work with:
// every agent failed at every stage. No completion call is attempted.
var ErrNoValidArtifacts = errors.New("no valid artifacts available for synthesis")

// ErrSessionConsumed indicates that Run was invoked on a session that has
// already run. Sessions are single-shot.
var ErrSessionConsumed = errors.New("session has already run")

// SessionError is the terminal failure of a deliberation session. It wraps
// the underlying cause and records the state in which the session failed.
// Per-agent call failures never become SessionErrors; they are recovered
// into artifact status at the stage boundary.
type SessionError struct {
	// State is the session state in which the failure occurred.
	State State

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return fmt.Sprintf("session failed in state %s: %v", e.State, e.Err)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

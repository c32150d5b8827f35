// Package emit provides observability events for deliberation sessions.
package emit

// Emitter receives and processes observability events from a deliberation
// session. Emitters are the presentation boundary: a renderer subscribes to
// stage-completion events instead of reaching into orchestrator internals.
//
// Implementations should be:
//   - Non-blocking: avoid slowing down stage execution
//   - Thread-safe: stages fan out and may emit concurrently
//   - Resilient: handle failures gracefully (never crash the session)
type Emitter interface {
	// Emit sends an observability event to the configured backend.
	// Emit must not panic; errors should be handled internally.
	Emit(event Event)
}

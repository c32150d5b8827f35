package emit

import "sync"

// BufferedEmitter implements Emitter by storing events in memory.
//
// It captures all events and provides query capabilities over session
// history. Events are organized by SessionID for efficient retrieval.
//
// Use cases:
//   - Testing and validation
//   - Post-session rendering of per-stage results
//   - Debugging
//
// Warning: all events are held in memory; long-lived processes running many
// sessions should Clear finished sessions.
//
// Example usage:
//
//	emitter := emit.NewBufferedEmitter()
//	sess, _ := deliberate.NewSession(members, deliberate.ModeDeep,
//	    deliberate.WithEmitter(emitter))
//	report, _ := sess.Run(ctx, input)
//
//	results := emitter.History(sess.ID(), emit.HistoryFilter{Msg: emit.MsgAgentResult})
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // sessionID -> events
}

// HistoryFilter specifies criteria for filtering session history.
// All fields are optional; set fields combine with AND logic.
type HistoryFilter struct {
	Stage   string // filter by stage (empty = no filter)
	AgentID string // filter by agent (empty = no filter)
	Msg     string // filter by message type (empty = no filter)
}

// NewBufferedEmitter creates a BufferedEmitter. Safe for concurrent use.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{
		events: make(map[string][]Event),
	}
}

// Emit stores an event in the buffer.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.SessionID] = append(b.events[event.SessionID], event)
}

// History retrieves events for a session matching the filter, in emission
// order. Returns a copy; the caller may mutate the result freely.
func (b *BufferedEmitter) History(sessionID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, event := range b.events[sessionID] {
		if filter.Stage != "" && event.Stage != filter.Stage {
			continue
		}
		if filter.AgentID != "" && event.AgentID != filter.AgentID {
			continue
		}
		if filter.Msg != "" && event.Msg != filter.Msg {
			continue
		}
		out = append(out, event)
	}
	return out
}

// Len returns the total number of buffered events for a session.
func (b *BufferedEmitter) Len(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events[sessionID])
}

// Clear removes all events for a session. Clearing an unknown session is a
// no-op.
func (b *BufferedEmitter) Clear(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.events, sessionID)
}

// ClearAll removes all buffered events.
func (b *BufferedEmitter) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = make(map[string][]Event)
}

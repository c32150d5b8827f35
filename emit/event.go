package emit

// Event message types emitted by a deliberation session.
const (
	// MsgSessionStart marks the beginning of a session run.
	MsgSessionStart = "session_start"

	// MsgSessionEnd marks the end of a session run, successful or not.
	// Meta carries "status" and, on failure, "error".
	MsgSessionEnd = "session_end"

	// MsgStageStart marks the beginning of a stage.
	MsgStageStart = "stage_start"

	// MsgStageEnd marks the completion of a stage, after the join barrier.
	// Meta carries "valid" and "failed" artifact counts.
	MsgStageEnd = "stage_end"

	// MsgAgentResult reports one agent's outcome within a stage.
	// Meta carries "status", "duration_ms", the produced "text" and, on
	// failure, "error".
	MsgAgentResult = "agent_result"

	// MsgReviewResult reports one peer-critique outcome.
	// Meta carries "author", "status", "duration_ms", "text" or "error".
	MsgReviewResult = "review_result"
)

// Event represents an observability event emitted during a deliberation
// session. Events provide insight into stage progression, per-agent
// outcomes, and session termination without imposing a rendering format.
type Event struct {
	// SessionID identifies the session that emitted this event.
	SessionID string

	// Stage names the stage this event belongs to ("initial", "review",
	// "revise", "synthesis"). Empty for session-level events.
	Stage string

	// AgentID identifies the agent concerned by this event.
	// Empty for stage- and session-level events.
	AgentID string

	// Msg is the event type; one of the Msg* constants.
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "status": "ok" or "failed"
	//   - "duration_ms": call duration in milliseconds
	//   - "error": normalized error message
	//   - "text": the produced artifact or critique text
	Meta map[string]interface{}
}

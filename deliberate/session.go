package deliberate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/consensus-go/agent"
	"github.com/dshills/consensus-go/emit"
)

// Session is the state machine for one deliberation: it sequences the
// stages (initial, optional review and revision, synthesis), owns the
// accumulating artifact maps, and decides termination.
//
// The member set is fixed at creation and invariant across all stages.
// Stages run strictly sequentially; within a stage, one concurrent unit of
// work runs per agent. A session is single-shot: Run may be called once.
//
// Snapshots of the session's state and per-stage results are safe to read
// from other goroutines while Run is in progress, so a renderer may poll
// instead of subscribing to events.
//
// Example usage:
//
//	members := []deliberate.Member{
//	    {ID: "gpt", Agent: openai.NewCompleter(key1, "")},
//	    {ID: "claude", Agent: anthropic.NewCompleter(key2, "")},
//	}
//	sess, err := deliberate.NewSession(members, deliberate.ModeDeep)
//	if err != nil {
//	    return err
//	}
//	report, err := sess.Run(ctx, input)
type Session struct {
	id      string
	mode    Mode
	members []Member
	handles map[ID]agent.Completer
	opts    options

	mu      sync.RWMutex
	state   State
	initial map[ID]Artifact
	reviews map[ID]Review
	final   map[ID]Artifact
	report  *Report
	err     error
}

// NewSession creates a deliberation session over the given members.
// Member order is the session's stable agent ordering: it decides review
// pairing and synthesizer selection. Returns ErrNoAgents for an empty
// member list and ErrDuplicateAgent for repeated identities.
func NewSession(members []Member, mode Mode, opts ...Option) (*Session, error) {
	if len(members) == 0 {
		return nil, ErrNoAgents
	}

	handles := make(map[ID]agent.Completer, len(members))
	for _, m := range members {
		if m.Agent == nil {
			return nil, &SessionError{State: StateInit, Err: ErrNoAgents}
		}
		if _, dup := handles[m.ID]; dup {
			return nil, ErrDuplicateAgent
		}
		handles[m.ID] = m.Agent
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sessionID == "" {
		o.sessionID = uuid.NewString()
	}

	ordered := make([]Member, len(members))
	copy(ordered, members)

	return &Session{
		id:      o.sessionID,
		mode:    mode,
		members: ordered,
		handles: handles,
		opts:    o,
		state:   StateInit,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the deliberation mode.
func (s *Session) Mode() Mode { return s.mode }

// Members returns the agent identities in session order.
func (s *Session) Members() []ID {
	ids := make([]ID, len(s.members))
	for i, m := range s.members {
		ids[i] = m.ID
	}
	return ids
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// InitialArtifacts returns a snapshot of the initial-stage artifacts.
func (s *Session) InitialArtifacts() map[ID]Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyArtifacts(s.initial)
}

// Reviews returns a snapshot of the peer critiques, keyed by author.
func (s *Session) Reviews() map[ID]Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[ID]Review, len(s.reviews))
	for k, v := range s.reviews {
		out[k] = v
	}
	return out
}

// FinalArtifacts returns a snapshot of the artifacts synthesis reads:
// revised where revision succeeded, initial where it was skipped or fell
// back.
func (s *Session) FinalArtifacts() map[ID]Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyArtifacts(s.final)
}

// Report returns the consensus report, or nil before the session is done.
func (s *Session) Report() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Err returns the terminal session error, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Run executes the deliberation to completion and returns the consensus
// report. The input string (content plus optional question) is treated as
// opaque and embedded into every stage's prompts.
//
// Per-agent call failures surface only as artifact status; Run returns an
// error solely for session-level failures: insufficient agents for deep
// mode, zero valid artifacts at synthesis, a failed synthesis call, or
// context cancellation between stages.
func (s *Session) Run(ctx context.Context, input string) (*Report, error) {
	s.mu.Lock()
	if s.state != StateInit {
		s.mu.Unlock()
		return nil, ErrSessionConsumed
	}
	s.mu.Unlock()

	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Msg:       emit.MsgSessionStart,
		Meta:      map[string]interface{}{"mode": string(s.mode), "agents": len(s.members)},
	})

	// Mode precondition, checked before any completion call.
	if s.mode == ModeDeep && len(s.members) < 2 {
		return nil, s.fail(StateInit, ErrInsufficientAgents)
	}

	// Initial stage: one prompt per member.
	s.setState(StateInitial)
	prompts := make(map[ID]string, len(s.members))
	for _, m := range s.members {
		prompts[m.ID] = initialPrompt(input)
	}
	initial := s.runStage(ctx, string(StateInitial), ArtifactInitial, prompts)
	s.storeInitial(initial)

	if err := ctx.Err(); err != nil {
		return nil, s.fail(StateInitial, err)
	}

	final := initial
	if s.mode == ModeDeep {
		final = s.deliberate(ctx, input, initial)
		if err := ctx.Err(); err != nil {
			return nil, s.fail(s.State(), err)
		}
	}
	s.storeFinal(final)

	return s.synthesize(ctx, input, final)
}

// deliberate runs the deep-mode rounds: review then revision. With fewer
// than two valid initial artifacts it degrades to synthesis over whatever
// is valid rather than failing the session; one valid artifact still
// permits a one-agent consensus.
func (s *Session) deliberate(ctx context.Context, input string, initial map[ID]Artifact) map[ID]Artifact {
	validAuthors := s.validOrder(initial)
	if len(validAuthors) < 2 {
		return initial
	}

	// Review round: pairing is computed only over valid authors.
	s.setState(StateReview)
	assignments := Assignments(validAuthors)
	reviews := s.runReviewStage(ctx, assignments, initial)
	s.storeReviews(reviews)

	// Revision round: an author revises only when its review succeeded;
	// otherwise the initial artifact is carried forward unchanged.
	s.setState(StateRevise)
	revisePrompts := make(map[ID]string)
	for _, author := range validAuthors {
		review, ok := reviews[author]
		if !ok || !review.OK() {
			continue
		}
		revisePrompts[author] = revisePrompt(initial[author].Text, review.Reviewer, review.Critique)
	}
	revised := s.runStage(ctx, string(StateRevise), ArtifactRevised, revisePrompts)

	// A failed revision falls back to the author's known-good initial
	// artifact, so no author is dropped by the revision round.
	final := make(map[ID]Artifact, len(validAuthors))
	for _, author := range validAuthors {
		if art, ok := revised[author]; ok && art.OK() {
			final[author] = art
			continue
		}
		final[author] = initial[author]
	}
	return final
}

// synthesize picks the synthesizer and produces the consensus report.
func (s *Session) synthesize(ctx context.Context, input string, final map[ID]Artifact) (*Report, error) {
	s.setState(StateSynthesis)

	validAuthors := s.validOrder(final)
	if len(validAuthors) == 0 {
		return nil, s.fail(StateSynthesis, ErrNoValidArtifacts)
	}

	contributions := make([]Artifact, 0, len(validAuthors))
	for _, author := range validAuthors {
		contributions = append(contributions, final[author])
	}

	// Reference policy: the first member in session order holding a valid
	// final artifact. No substitute synthesizer is attempted on failure.
	synthesizer := validAuthors[0]
	prompt := synthesisPrompt(input, contributions)
	text, _, err := s.complete(ctx, string(StateSynthesis), synthesizer, s.handles[synthesizer], prompt)
	if err != nil {
		return nil, s.fail(StateSynthesis, err)
	}

	report := &Report{
		SessionID:     s.id,
		Synthesizer:   synthesizer,
		Text:          text,
		Contributions: contributions,
	}

	s.mu.Lock()
	s.report = report
	s.state = StateDone
	s.mu.Unlock()

	s.opts.metrics.SessionFinished(s.mode, StateDone)
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Msg:       emit.MsgSessionEnd,
		Meta: map[string]interface{}{
			"status":      string(StateDone),
			"synthesizer": string(synthesizer),
		},
	})
	return report, nil
}

// validOrder returns the authors of valid artifacts in session member
// order. Later stages read only the latest valid artifact per agent.
func (s *Session) validOrder(artifacts map[ID]Artifact) []ID {
	var out []ID
	for _, m := range s.members {
		if art, ok := artifacts[m.ID]; ok && art.OK() {
			out = append(out, m.ID)
		}
	}
	return out
}

// fail terminates the session. Session-level failures are surfaced as an
// explicit failed-session result, never thrown mid-pipeline.
func (s *Session) fail(state State, cause error) error {
	err := &SessionError{State: state, Err: cause}

	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()

	s.opts.metrics.SessionFinished(s.mode, StateFailed)
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Msg:       emit.MsgSessionEnd,
		Meta: map[string]interface{}{
			"status": string(StateFailed),
			"error":  err.Error(),
		},
	})
	return err
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) storeInitial(artifacts map[ID]Artifact) {
	s.mu.Lock()
	s.initial = copyArtifacts(artifacts)
	s.mu.Unlock()
}

func (s *Session) storeReviews(reviews map[ID]Review) {
	s.mu.Lock()
	s.reviews = make(map[ID]Review, len(reviews))
	for k, v := range reviews {
		s.reviews[k] = v
	}
	s.mu.Unlock()
}

func (s *Session) storeFinal(artifacts map[ID]Artifact) {
	s.mu.Lock()
	s.final = copyArtifacts(artifacts)
	s.mu.Unlock()
}

func copyArtifacts(in map[ID]Artifact) map[ID]Artifact {
	out := make(map[ID]Artifact, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

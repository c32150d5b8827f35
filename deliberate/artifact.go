// Package deliberate provides the deliberation orchestrator: a staged
// protocol that drives several independent text-generation agents through
// initial answers, round-robin peer critique, critique-driven revision, and
// final synthesis, with per-agent failure isolation at every stage.
package deliberate

import (
	"github.com/dshills/consensus-go/agent"
)

// ID is an opaque key identifying one configured agent. The set of IDs is
// fixed once a session starts; no agents join or leave mid-session.
type ID string

// Mode selects the deliberation variant. Supplied at session creation,
// never derived by the orchestrator.
type Mode string

const (
	// ModePlain runs a single round: initial answers, then synthesis.
	ModePlain Mode = "plain"

	// ModeDeep runs the multi-round variant: initial answers, round-robin
	// peer critique, critique-driven revision, then synthesis.
	ModeDeep Mode = "deep"
)

// State identifies where a session is in its lifecycle.
type State string

const (
	StateInit      State = "init"
	StateInitial   State = "initial"
	StateReview    State = "review"
	StateRevise    State = "revise"
	StateSynthesis State = "synthesis"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Artifact stage markers.
const (
	// ArtifactInitial marks an artifact produced by the initial stage.
	ArtifactInitial = "initial"

	// ArtifactRevised marks an artifact produced by the revision stage.
	// An author whose revision was skipped or failed keeps its initial
	// artifact; superseding never mutates, it replaces.
	ArtifactRevised = "revised"
)

// Member binds one agent identity to its completion handle. The caller
// supplies exactly the agents holding valid credentials; the orchestrator
// never discovers or validates credentials itself.
type Member struct {
	ID    ID
	Agent agent.Completer
}

// Artifact is the text and status produced by one agent at one stage.
// Artifacts are immutable after creation; a later stage supersedes an
// author's artifact with a new one rather than mutating it.
type Artifact struct {
	// Author identifies the agent that produced this artifact.
	Author ID

	// Text is the generated content. Empty when the call failed.
	Text string

	// Stage is ArtifactInitial or ArtifactRevised.
	Stage string

	// Err carries the normalized failure cause. A nil Err marks the
	// artifact valid. Downstream stages read only valid artifacts; the
	// failure is never inferred from the text.
	Err error
}

// OK reports whether the artifact is valid.
func (a Artifact) OK() bool {
	return a.Err == nil
}

// Assignment pairs one author with the reviewer responsible for critiquing
// its artifact.
type Assignment struct {
	Author   ID
	Reviewer ID
}

// Review is one peer-critique outcome, keyed by author: the pairing
// produces exactly one reviewer per author.
type Review struct {
	// Author identifies the agent whose artifact was reviewed.
	Author ID

	// Reviewer identifies the agent that produced the critique.
	Reviewer ID

	// Critique is the reviewer's text. Empty when the call failed.
	Critique string

	// Err carries the normalized failure cause; nil marks the review valid.
	Err error
}

// OK reports whether the review is valid.
func (r Review) OK() bool {
	return r.Err == nil
}

// Report is the final consensus artifact, with provenance.
type Report struct {
	// SessionID identifies the session that produced this report.
	SessionID string

	// Synthesizer is the agent that wrote the consensus text: the first
	// member in session order holding a valid final artifact.
	Synthesizer ID

	// Text is the consensus report.
	Text string

	// Contributions holds every valid final artifact that informed the
	// synthesis, in session member order.
	Contributions []Artifact
}

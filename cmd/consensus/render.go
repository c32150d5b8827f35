package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dshills/consensus-go/deliberate"
	"github.com/dshills/consensus-go/emit"
	"github.com/dshills/consensus-go/store"
)

// ConsoleEmitter implements emit.Emitter and renders deliberation progress
// to the terminal: stage banners, per-agent outcomes, and failures. The
// orchestrator emits structured values; presentation choices live here.
type ConsoleEmitter struct {
	writer  io.Writer
	mu      sync.Mutex
	verbose bool
}

// NewConsoleEmitter creates a console renderer. When verbose is true the
// full text of every artifact and critique is printed; otherwise only
// outcomes and the final report are shown.
func NewConsoleEmitter(writer io.Writer, verbose bool) *ConsoleEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ConsoleEmitter{writer: writer, verbose: verbose}
}

// Emit renders one session event.
func (c *ConsoleEmitter) Emit(event emit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Msg {
	case emit.MsgSessionStart:
		fmt.Fprintf(c.writer, "Deliberation started (mode: %v, agents: %v)\n",
			event.Meta["mode"], event.Meta["agents"])
	case emit.MsgStageStart:
		fmt.Fprintf(c.writer, "\n== Stage: %s ==\n", event.Stage)
	case emit.MsgAgentResult:
		c.renderResult(event, event.AgentID)
	case emit.MsgReviewResult:
		author, _ := event.Meta["author"].(string)
		c.renderResult(event, fmt.Sprintf("%s -> %s", event.AgentID, author))
	case emit.MsgStageEnd:
		fmt.Fprintf(c.writer, "-- %s complete: %v ok, %v failed\n",
			event.Stage, event.Meta["valid"], event.Meta["failed"])
	case emit.MsgSessionEnd:
		if errMsg, ok := event.Meta["error"]; ok {
			fmt.Fprintf(c.writer, "\nDeliberation failed: %v\n", errMsg)
		}
	}
}

func (c *ConsoleEmitter) renderResult(event emit.Event, label string) {
	status, _ := event.Meta["status"].(string)
	duration := event.Meta["duration_ms"]
	if status == "ok" {
		fmt.Fprintf(c.writer, "  [ok]     %s (%vms)\n", label, duration)
		if c.verbose {
			if text, ok := event.Meta["text"].(string); ok && text != "" {
				fmt.Fprintf(c.writer, "%s\n", indent(text))
			}
		}
		return
	}
	fmt.Fprintf(c.writer, "  [failed] %s: %v\n", label, event.Meta["error"])
}

func indent(text string) string {
	out := "    "
	for _, r := range text {
		out += string(r)
		if r == '\n' {
			out += "    "
		}
	}
	return out
}

// buildTranscript assembles the archival record of a finished session from
// its snapshots.
func buildTranscript(sess *deliberate.Session, input string) store.Transcript {
	t := store.Transcript{
		SessionID: sess.ID(),
		Mode:      string(sess.Mode()),
		Input:     input,
		Status:    string(sess.State()),
		CreatedAt: time.Now(),
	}
	if err := sess.Err(); err != nil {
		t.Error = err.Error()
	}

	for _, stage := range []map[deliberate.ID]deliberate.Artifact{
		sess.InitialArtifacts(), sess.FinalArtifacts(),
	} {
		for _, art := range sortedArtifacts(stage) {
			rec := store.ArtifactRecord{
				Agent: string(art.Author),
				Stage: art.Stage,
				Text:  art.Text,
			}
			if art.Err != nil {
				rec.Error = art.Err.Error()
			}
			t.Artifacts = append(t.Artifacts, rec)
		}
	}

	for _, review := range sortedReviews(sess.Reviews()) {
		rec := store.ReviewRecord{
			Author:   string(review.Author),
			Reviewer: string(review.Reviewer),
			Critique: review.Critique,
		}
		if review.Err != nil {
			rec.Error = review.Err.Error()
		}
		t.Reviews = append(t.Reviews, rec)
	}

	if report := sess.Report(); report != nil {
		t.Synthesizer = string(report.Synthesizer)
		t.Report = report.Text
	}
	return t
}

func sortedArtifacts(in map[deliberate.ID]deliberate.Artifact) []deliberate.Artifact {
	out := make([]deliberate.Artifact, 0, len(in))
	for _, art := range in {
		out = append(out, art)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out
}

func sortedReviews(in map[deliberate.ID]deliberate.Review) []deliberate.Review {
	out := make([]deliberate.Review, 0, len(in))
	for _, review := range in {
		out = append(out, review)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out
}

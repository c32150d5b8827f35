package deliberate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/consensus-go/agent"
	"github.com/dshills/consensus-go/emit"
)

// The stage executor: runs one homogeneous operation across a set of agents
// concurrently, one goroutine per agent, joining before the next stage. An
// individual agent error becomes a failed artifact and never aborts sibling
// calls; the batch itself cannot fail. Results are collected by the join
// step from independently-returned unit results, so no locks guard the
// output map.

type unitResult struct {
	id       ID
	text     string
	err      error
	duration time.Duration
}

// runStage executes one prompt per member through that member's own handle.
// Members without a prompt entry are skipped. An empty prompt map yields an
// empty result map. Output has exactly one entry per prompted member.
func (s *Session) runStage(ctx context.Context, stageName, artStage string, prompts map[ID]string) map[ID]Artifact {
	s.emitStageStart(stageName)

	results := make(chan unitResult, len(prompts))
	var wg sync.WaitGroup

	for _, m := range s.members {
		prompt, ok := prompts[m.ID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(m Member, prompt string) {
			defer wg.Done()
			text, dur, err := s.complete(ctx, stageName, m.ID, m.Agent, prompt)
			results <- unitResult{id: m.ID, text: text, err: err, duration: dur}
		}(m, prompt)
	}

	wg.Wait()
	close(results)

	byID := make(map[ID]unitResult, len(prompts))
	for res := range results {
		byID[res.id] = res
	}

	// Build the output and emit per-agent results in member order, so
	// renderers see a deterministic sequence regardless of completion order.
	artifacts := make(map[ID]Artifact, len(byID))
	valid, failed := 0, 0
	for _, m := range s.members {
		res, ok := byID[m.ID]
		if !ok {
			continue
		}
		art := Artifact{Author: res.id, Text: res.text, Stage: artStage, Err: res.err}
		artifacts[res.id] = art
		if art.OK() {
			valid++
		} else {
			failed++
		}
		s.emitAgentResult(stageName, res)
	}

	s.emitStageEnd(stageName, valid, failed)
	return artifacts
}

// runReviewStage executes the peer-critique assignments: for each author,
// the assigned reviewer critiques the author's artifact. Reviews run
// concurrently and are keyed by author. A reviewer failure is recorded in
// the review's status and never blocks sibling reviews.
func (s *Session) runReviewStage(ctx context.Context, assignments []Assignment, initial map[ID]Artifact) map[ID]Review {
	s.emitStageStart(string(StateReview))

	type reviewResult struct {
		assignment Assignment
		critique   string
		err        error
		duration   time.Duration
	}

	results := make(chan reviewResult, len(assignments))
	var wg sync.WaitGroup

	for _, asn := range assignments {
		wg.Add(1)
		go func(asn Assignment) {
			defer wg.Done()
			prompt := reviewPrompt(asn.Author, initial[asn.Author].Text)
			critique, dur, err := s.complete(ctx, string(StateReview), asn.Reviewer, s.handles[asn.Reviewer], prompt)
			results <- reviewResult{assignment: asn, critique: critique, err: err, duration: dur}
		}(asn)
	}

	wg.Wait()
	close(results)

	byAuthor := make(map[ID]reviewResult, len(assignments))
	for res := range results {
		byAuthor[res.assignment.Author] = res
	}

	reviews := make(map[ID]Review, len(byAuthor))
	valid, failed := 0, 0
	for _, asn := range assignments {
		res := byAuthor[asn.Author]
		review := Review{
			Author:   asn.Author,
			Reviewer: asn.Reviewer,
			Critique: res.critique,
			Err:      res.err,
		}
		reviews[asn.Author] = review
		if review.OK() {
			valid++
		} else {
			failed++
		}
		s.emitReviewResult(res.assignment, res.critique, res.err, res.duration)
	}

	s.emitStageEnd(string(StateReview), valid, failed)
	return reviews
}

// complete performs one completion call with the configured per-call
// timeout. A deadline hit is normalized to a retryable timeout CallError so
// downstream code never inspects raw context errors.
func (s *Session) complete(ctx context.Context, stageName string, id ID, c agent.Completer, prompt string) (string, time.Duration, error) {
	callCtx := ctx
	if s.opts.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.callTimeout)
		defer cancel()
	}

	s.opts.metrics.CallStarted()
	start := time.Now()
	text, err := c.Complete(callCtx, prompt)
	dur := time.Since(start)

	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = &agent.CallError{
			Provider:  c.Name(),
			Code:      agent.CodeTimeout,
			Message:   fmt.Sprintf("completion call exceeded %v", s.opts.callTimeout),
			Retryable: true,
		}
	}

	status := statusLabel(err)
	s.opts.metrics.CallFinished(stageName, id, status, dur)
	return text, dur, err
}

func statusLabel(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

// Event helpers. Emission happens from the join step in member order, never
// from inside the fan-out goroutines.

func (s *Session) emitStageStart(stageName string) {
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Stage:     stageName,
		Msg:       emit.MsgStageStart,
	})
}

func (s *Session) emitStageEnd(stageName string, valid, failed int) {
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Stage:     stageName,
		Msg:       emit.MsgStageEnd,
		Meta: map[string]interface{}{
			"valid":  valid,
			"failed": failed,
		},
	})
}

func (s *Session) emitAgentResult(stageName string, res unitResult) {
	meta := map[string]interface{}{
		"status":      statusLabel(res.err),
		"duration_ms": res.duration.Milliseconds(),
	}
	if res.err != nil {
		meta["error"] = res.err.Error()
	} else {
		meta["text"] = res.text
	}
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Stage:     stageName,
		AgentID:   string(res.id),
		Msg:       emit.MsgAgentResult,
		Meta:      meta,
	})
}

func (s *Session) emitReviewResult(asn Assignment, critique string, err error, dur time.Duration) {
	meta := map[string]interface{}{
		"author":      string(asn.Author),
		"status":      statusLabel(err),
		"duration_ms": dur.Milliseconds(),
	}
	if err != nil {
		meta["error"] = err.Error()
	} else {
		meta["text"] = critique
	}
	s.opts.emitter.Emit(emit.Event{
		SessionID: s.id,
		Stage:     string(StateReview),
		AgentID:   string(asn.Reviewer),
		Msg:       emit.MsgReviewResult,
		Meta:      meta,
	})
}

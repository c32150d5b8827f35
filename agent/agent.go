// Package agent defines the text-completion capability contract implemented
// by all vendor adapters.
package agent

import (
	"context"
	"fmt"
)

// Completer is the interface that all AI provider adapters must implement
// to participate in a deliberation. It abstracts away the provider-specific
// details of the OpenAI, Anthropic, and Google APIs behind a single blocking
// completion call.
//
// Implementations must be safe for concurrent use and must respect context
// cancellation and timeouts. Each adapter performs exactly one outbound
// request per Complete invocation; retry policy, if any, belongs to the
// caller.
//
// All failure modes (authentication, rate limiting, network timeouts,
// malformed responses) are normalized to *CallError. Adapters never panic
// across this boundary.
//
// Example usage:
//
//	c := openai.NewCompleter(apiKey, "gpt-4o")
//	text, err := c.Complete(ctx, "Summarize the following paper: ...")
//	if err != nil {
//	    var callErr *agent.CallError
//	    if errors.As(err, &callErr) && callErr.IsRetryable() {
//	        // transient failure - caller may retry
//	    }
//	    return err
//	}
type Completer interface {
	// Complete sends a single prompt to the provider and returns the
	// generated text. The context controls cancellation and timeout;
	// implementations return immediately when ctx.Done() is signaled.
	//
	// Errors are distinguishable as retryable (rate limit, timeout,
	// overload) or permanent (invalid API key, quota exceeded) via
	// *CallError.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name for logging and reporting.
	// Stable for the lifetime of the adapter (e.g. "openai", "anthropic",
	// "google", "perplexity", "mock").
	Name() string
}

// Error codes used by CallError. Adapters map vendor-specific failures onto
// these so that callers never inspect provider error strings.
const (
	CodeInvalidAPIKey = "invalid_api_key"
	CodeRateLimited   = "rate_limited"
	CodeQuotaExceeded = "quota_exceeded"
	CodeTimeout       = "timeout"
	CodeBlocked       = "content_blocked"
	CodeEmptyResponse = "empty_response"
	CodeAPIError      = "api_error"
)

// CallError represents a normalized failure of a single completion call.
// It distinguishes retryable transient failures from permanent ones.
type CallError struct {
	// Provider identifies which adapter produced the error.
	Provider string

	// Code is the machine-readable error code for programmatic handling.
	Code string

	// Message is the human-readable cause for logging and display.
	Message string

	// Retryable indicates whether the call can be retried with backoff.
	// True for transient failures (rate limits, timeouts, overload).
	// False for permanent failures (invalid credentials, quota exceeded).
	Retryable bool
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}

// IsRetryable returns true if the error indicates a transient failure.
func (e *CallError) IsRetryable() bool {
	return e.Retryable
}

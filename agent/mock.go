package agent

import (
	"context"
	"sync"
	"time"
)

// MockCompleter is a test implementation of Completer.
//
// Use MockCompleter in tests to verify deliberation behavior without making
// actual API calls. It provides:
//   - Configurable responses returned in sequence
//   - Error injection
//   - Optional artificial latency
//   - Call history tracking
//   - Thread-safe operation
//
// Example usage:
//
//	mock := &MockCompleter{
//	    ID: "gpt",
//	    Responses: []string{"first answer", "second answer"},
//	}
//	text, err := mock.Complete(ctx, prompt)
//	// Returns "first answer", then "second answer" on subsequent calls.
//
// Example with error injection:
//
//	mock := &MockCompleter{
//	    ID:  "gpt",
//	    Err: &CallError{Provider: "mock", Code: CodeRateLimited, Retryable: true},
//	}
//	_, err := mock.Complete(ctx, prompt)
//	// Returns the configured error.
type MockCompleter struct {
	// ID is the name reported by Name(). Defaults to "mock" if empty.
	ID string

	// Responses contains the sequence of texts to return. Each call to
	// Complete returns the next response in order; once all responses are
	// consumed the last one repeats.
	Responses []string

	// Err, if set, is returned by Complete instead of a response.
	Err error

	// Delay, if non-zero, is slept before answering. Useful for exercising
	// per-call timeouts. The sleep is interrupted by context cancellation.
	Delay time.Duration

	// Prompts records every prompt passed to Complete, in call order.
	Prompts []string

	mu        sync.Mutex
	callIndex int
}

// Complete implements the Completer interface. It always records the prompt
// in Prompts, even when returning an injected error.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}

	idx := m.callIndex
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	} else {
		m.callIndex++
	}
	return m.Responses[idx], nil
}

// Name implements the Completer interface.
func (m *MockCompleter) Name() string {
	if m.ID == "" {
		return "mock"
	}
	return m.ID
}

// CallCount returns the number of times Complete has been called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// Reset clears the call history and restarts the response sequence.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = nil
	m.callIndex = 0
}

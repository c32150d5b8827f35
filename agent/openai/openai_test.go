package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/consensus-go/agent"
)

func TestNewCompleter_Defaults(t *testing.T) {
	c := NewCompleter("sk-test", "")
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}
	if c.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", c.Name())
	}
}

// TestNewCompleter_PerplexityOptions verifies the compatible-endpoint
// options used to front Perplexity.
func TestNewCompleter_PerplexityOptions(t *testing.T) {
	c := NewCompleter("pplx-test", "sonar-pro",
		WithBaseURL(PerplexityBaseURL),
		WithName("perplexity"))

	if c.Name() != "perplexity" {
		t.Errorf("Name() = %q, want perplexity", c.Name())
	}
	if c.model != "sonar-pro" {
		t.Errorf("model = %q, want sonar-pro", c.model)
	}
}

// TestMapError verifies vendor failures normalize to stable codes.
func TestMapError(t *testing.T) {
	c := NewCompleter("sk-test", "")

	tests := []struct {
		name      string
		err       error
		wantCode  string
		retryable bool
	}{
		{"cancelled context", context.Canceled, agent.CodeTimeout, true},
		{"invalid key", errors.New("invalid_api_key: Incorrect API key provided"), agent.CodeInvalidAPIKey, false},
		{"http 401", errors.New("POST: 401 Unauthorized"), agent.CodeInvalidAPIKey, false},
		{"rate limit", errors.New("429: rate_limit_exceeded"), agent.CodeRateLimited, true},
		{"insufficient quota", errors.New("insufficient_quota: check plan and billing"), agent.CodeQuotaExceeded, false},
		{"timeout", errors.New("request timeout"), agent.CodeTimeout, true},
		{"unknown", errors.New("502 bad gateway"), agent.CodeAPIError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *agent.CallError
			if !errors.As(c.mapError(tt.err), &ce) {
				t.Fatal("mapError did not return *agent.CallError")
			}
			if ce.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", ce.Code, tt.wantCode)
			}
			if ce.IsRetryable() != tt.retryable {
				t.Errorf("retryable = %v, want %v", ce.IsRetryable(), tt.retryable)
			}
		})
	}
}

// TestMapError_NamedVendor verifies the reported provider follows the
// configured name, not the transport.
func TestMapError_NamedVendor(t *testing.T) {
	c := NewCompleter("pplx-test", "sonar-pro", WithName("perplexity"))

	var ce *agent.CallError
	if !errors.As(c.mapError(errors.New("429")), &ce) {
		t.Fatal("mapError did not return *agent.CallError")
	}
	if ce.Provider != "perplexity" {
		t.Errorf("provider = %q, want perplexity", ce.Provider)
	}
}

// TestComplete_CancelledContext verifies the adapter returns before issuing
// a request when the context is already done.
func TestComplete_CancelledContext(t *testing.T) {
	c := NewCompleter("sk-test", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// Package anthropic adapts Anthropic's Claude API to the agent.Completer
// contract.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/consensus-go/agent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

const maxTokens = 4096

// Completer implements agent.Completer using Anthropic's Claude API.
// It wraps the official anthropic-sdk-go client. Safe for concurrent use
// after creation; the underlying SDK client handles concurrent requests.
//
// Example usage:
//
//	c := anthropic.NewCompleter(apiKey, "claude-sonnet-4-5")
//	text, err := c.Complete(ctx, prompt)
type Completer struct {
	client *anthropic.Client
	model  string
}

// NewCompleter creates a new Anthropic completer with the given API key and
// model. An empty model selects DefaultModel. The API key can be obtained
// from https://console.anthropic.com/
func NewCompleter(apiKey, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Completer{
		client: &client,
		model:  model,
	}
}

// Name returns "anthropic" as the provider identifier.
func (c *Completer) Name() string {
	return "anthropic"
}

// Complete implements agent.Completer by sending a single user message to
// the Claude API and concatenating the text blocks of the response.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", mapError(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if text == "" {
		return "", &agent.CallError{
			Provider: c.Name(),
			Code:     agent.CodeEmptyResponse,
			Message:  "Claude returned no text content",
		}
	}
	return text, nil
}

// mapError converts Anthropic SDK errors to *agent.CallError.
//
// Anthropic error types of interest:
//   - authentication_error (401/403): invalid API key, permanent
//   - rate_limit_error (429): retryable
//   - overloaded_error (529): service overloaded, retryable
//   - billing / quota errors: permanent
func mapError(err error) error {
	if err == context.Canceled || err == context.DeadlineExceeded {
		return &agent.CallError{
			Provider:  "anthropic",
			Code:      agent.CodeTimeout,
			Message:   "request cancelled or timed out",
			Retryable: true,
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "authentication"),
		strings.Contains(msg, "api_key"):
		return &agent.CallError{
			Provider: "anthropic",
			Code:     agent.CodeInvalidAPIKey,
			Message:  "API key is invalid or expired",
		}
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "overloaded"):
		return &agent.CallError{
			Provider:  "anthropic",
			Code:      agent.CodeRateLimited,
			Message:   "API rate limit exceeded or service overloaded",
			Retryable: true,
		}
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "billing"):
		return &agent.CallError{
			Provider: "anthropic",
			Code:     agent.CodeQuotaExceeded,
			Message:  "API quota exceeded",
		}
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline"):
		return &agent.CallError{
			Provider:  "anthropic",
			Code:      agent.CodeTimeout,
			Message:   "request timed out",
			Retryable: true,
		}
	}

	return &agent.CallError{
		Provider: "anthropic",
		Code:     agent.CodeAPIError,
		Message:  fmt.Sprintf("Anthropic API error: %v", err),
	}
}

// Package openai adapts OpenAI's chat completion API to the agent.Completer
// contract. It also serves OpenAI-compatible endpoints (such as Perplexity)
// via WithBaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/dshills/consensus-go/agent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// PerplexityBaseURL is the OpenAI-compatible endpoint served by Perplexity.
// Pass it to WithBaseURL together with WithName("perplexity").
const PerplexityBaseURL = "https://api.perplexity.ai"

// Completer implements agent.Completer using OpenAI's chat completion API.
// Safe for concurrent use; the underlying SDK client is thread-safe.
//
// Example usage:
//
//	c := openai.NewCompleter(apiKey, "gpt-4o")
//	text, err := c.Complete(ctx, prompt)
//
// Perplexity rides the same adapter because it exposes an OpenAI-compatible
// API:
//
//	c := openai.NewCompleter(apiKey, "sonar-pro",
//	    openai.WithBaseURL(openai.PerplexityBaseURL),
//	    openai.WithName("perplexity"))
type Completer struct {
	client *openai.Client
	model  string
	name   string
}

// Option configures a Completer.
type Option func(*settings)

type settings struct {
	baseURL string
	name    string
}

// WithBaseURL points the adapter at an OpenAI-compatible endpoint other
// than api.openai.com.
func WithBaseURL(url string) Option {
	return func(s *settings) { s.baseURL = url }
}

// WithName overrides the provider name reported by Name(). Used when the
// adapter fronts a compatible vendor such as Perplexity.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// NewCompleter creates a new OpenAI completer with the given API key and
// model. An empty model selects DefaultModel.
func NewCompleter(apiKey, model string, opts ...Option) *Completer {
	if model == "" {
		model = DefaultModel
	}

	s := settings{name: "openai"}
	for _, opt := range opts {
		opt(&s)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if s.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(s.baseURL))
	}

	client := openai.NewClient(clientOpts...)
	return &Completer{
		client: &client,
		model:  model,
		name:   s.name,
	}
}

// Name returns the provider identifier ("openai" unless overridden).
func (c *Completer) Name() string {
	return c.name
}

// Complete implements agent.Completer by sending a single user message and
// returning the first choice's content.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
	})
	if err != nil {
		return "", c.mapError(err)
	}

	if len(completion.Choices) == 0 {
		return "", &agent.CallError{
			Provider: c.name,
			Code:     agent.CodeEmptyResponse,
			Message:  "no choices in completion response",
		}
	}
	return completion.Choices[0].Message.Content, nil
}

// mapError converts OpenAI SDK errors to *agent.CallError.
func (c *Completer) mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &agent.CallError{
			Provider:  c.name,
			Code:      agent.CodeTimeout,
			Message:   "request cancelled or timed out",
			Retryable: true,
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "invalid_api_key"),
		strings.Contains(msg, "incorrect API key"):
		return &agent.CallError{
			Provider: c.name,
			Code:     agent.CodeInvalidAPIKey,
			Message:  "API key is invalid or expired",
		}
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "rate limit"):
		return &agent.CallError{
			Provider:  c.name,
			Code:      agent.CodeRateLimited,
			Message:   "API rate limit exceeded",
			Retryable: true,
		}
	case strings.Contains(msg, "insufficient_quota"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "billing"):
		return &agent.CallError{
			Provider: c.name,
			Code:     agent.CodeQuotaExceeded,
			Message:  "API quota exceeded",
		}
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline"):
		return &agent.CallError{
			Provider:  c.name,
			Code:      agent.CodeTimeout,
			Message:   "request timed out",
			Retryable: true,
		}
	}

	return &agent.CallError{
		Provider: c.name,
		Code:     agent.CodeAPIError,
		Message:  fmt.Sprintf("OpenAI API error: %v", err),
	}
}

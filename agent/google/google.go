// Package google adapts Google's Gemini API to the agent.Completer contract.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dshills/consensus-go/agent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Completer implements agent.Completer using Google's Gemini API.
// It wraps the official generative-ai-go client.
//
// Unlike the other adapters, the genai client owns network resources;
// call Close when the completer is no longer needed.
//
// Example usage:
//
//	c, err := google.NewCompleter(apiKey, "gemini-2.0-flash")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	text, err := c.Complete(ctx, prompt)
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Gemini completer. An empty apiKey falls back to
// the GOOGLE_API_KEY environment variable; an empty model selects
// DefaultModel. The API key can be obtained from
// https://aistudio.google.com/app/apikey
func NewCompleter(apiKey, model string) (*Completer, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, &agent.CallError{
				Provider: "google",
				Code:     agent.CodeInvalidAPIKey,
				Message:  "Google API key not provided and GOOGLE_API_KEY not set",
			}
		}
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	return &Completer{
		client: client,
		model:  model,
	}, nil
}

// Close releases the underlying Gemini client resources.
func (c *Completer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Name returns "google" as the provider identifier.
func (c *Completer) Name() string {
	return "google"
}

// Complete implements agent.Completer by generating content from a single
// text prompt and concatenating the text parts of the first candidate.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapError(err)
	}

	text := extractText(resp)
	if text == "" {
		return "", &agent.CallError{
			Provider: "google",
			Code:     agent.CodeEmptyResponse,
			Message:  "Gemini returned no text content",
		}
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// mapError converts Gemini API errors to *agent.CallError. Gemini reports
// safety blocks as errors; they are permanent for the given prompt.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &agent.CallError{
			Provider:  "google",
			Code:      agent.CodeTimeout,
			Message:   "request cancelled or timed out",
			Retryable: true,
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key not valid"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "PERMISSION_DENIED"):
		return &agent.CallError{
			Provider: "google",
			Code:     agent.CodeInvalidAPIKey,
			Message:  "API key is invalid or lacks permission",
		}
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(msg, "rate limit"):
		return &agent.CallError{
			Provider:  "google",
			Code:      agent.CodeRateLimited,
			Message:   "API rate limit exceeded",
			Retryable: true,
		}
	case strings.Contains(msg, "quota"):
		return &agent.CallError{
			Provider: "google",
			Code:     agent.CodeQuotaExceeded,
			Message:  "API quota exceeded",
		}
	case strings.Contains(msg, "blocked"),
		strings.Contains(msg, "SAFETY"):
		return &agent.CallError{
			Provider: "google",
			Code:     agent.CodeBlocked,
			Message:  "content blocked by safety filter",
		}
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline"):
		return &agent.CallError{
			Provider:  "google",
			Code:      agent.CodeTimeout,
			Message:   "request timed out",
			Retryable: true,
		}
	}

	return &agent.CallError{
		Provider: "google",
		Code:     agent.CodeAPIError,
		Message:  fmt.Sprintf("Gemini API error: %v", err),
	}
}

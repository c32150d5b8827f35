package main

import (
	"fmt"
	"io"

	"github.com/dshills/consensus-go/agent"
	"github.com/dshills/consensus-go/agent/anthropic"
	"github.com/dshills/consensus-go/agent/google"
	"github.com/dshills/consensus-go/agent/openai"
	"github.com/dshills/consensus-go/deliberate"
)

// buildMembers constructs one deliberation member per enabled provider with
// a key, preserving the config file's order (which becomes the session's
// stable agent ordering). Returns the members plus closers for adapters
// that hold network resources.
func buildMembers(cfgs []ProviderConfig) ([]deliberate.Member, []io.Closer, error) {
	var members []deliberate.Member
	var closers []io.Closer

	for _, cfg := range cfgs {
		if !cfg.Enabled || cfg.APIKey == "" {
			continue
		}

		var completer agent.Completer
		switch cfg.Name {
		case "openai":
			completer = openai.NewCompleter(cfg.APIKey, cfg.Model)
		case "perplexity":
			model := cfg.Model
			if model == "" {
				model = "sonar-pro"
			}
			completer = openai.NewCompleter(cfg.APIKey, model,
				openai.WithBaseURL(openai.PerplexityBaseURL),
				openai.WithName("perplexity"))
		case "anthropic":
			completer = anthropic.NewCompleter(cfg.APIKey, cfg.Model)
		case "google":
			c, err := google.NewCompleter(cfg.APIKey, cfg.Model)
			if err != nil {
				return nil, closers, fmt.Errorf("google provider: %w", err)
			}
			closers = append(closers, c)
			completer = c
		default:
			return nil, closers, fmt.Errorf("unknown provider %q (want openai, anthropic, google, or perplexity)", cfg.Name)
		}

		members = append(members, deliberate.Member{
			ID:    deliberate.ID(cfg.Name),
			Agent: completer,
		})
	}

	return members, closers, nil
}

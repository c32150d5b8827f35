package deliberate

import (
	"strings"
	"testing"
)

// TestPrompts_EmbedInputs verifies each stage prompt carries the texts and
// identities the stage needs, treating the input itself as opaque.
func TestPrompts_EmbedInputs(t *testing.T) {
	t.Run("initial", func(t *testing.T) {
		p := initialPrompt("the raw material")
		if !strings.Contains(p, "the raw material") {
			t.Error("initial prompt missing the input")
		}
	})

	t.Run("review", func(t *testing.T) {
		p := reviewPrompt("alice", "alice's draft answer")
		if !strings.Contains(p, "alice's draft answer") {
			t.Error("review prompt missing the answer under review")
		}
		if !strings.Contains(p, "alice") {
			t.Error("review prompt missing the author identity")
		}
	})

	t.Run("revise", func(t *testing.T) {
		p := revisePrompt("my first answer", "bob", "bob's critique")
		for _, want := range []string{"my first answer", "bob", "bob's critique"} {
			if !strings.Contains(p, want) {
				t.Errorf("revise prompt missing %q", want)
			}
		}
	})

	t.Run("synthesis", func(t *testing.T) {
		contributions := []Artifact{
			{Author: "alice", Text: "answer one", Stage: ArtifactRevised},
			{Author: "bob", Text: "answer two", Stage: ArtifactRevised},
		}
		p := synthesisPrompt("the question", contributions)
		for _, want := range []string{"the question", "alice", "answer one", "bob", "answer two"} {
			if !strings.Contains(p, want) {
				t.Errorf("synthesis prompt missing %q", want)
			}
		}
		// Contributions appear in the order given.
		if strings.Index(p, "answer one") > strings.Index(p, "answer two") {
			t.Error("synthesis prompt reorders contributions")
		}
		for _, section := range []string{"## Agreements", "## Differences", "## Recommended analysis"} {
			if !strings.Contains(p, section) {
				t.Errorf("synthesis prompt missing section %q", section)
			}
		}
	})
}

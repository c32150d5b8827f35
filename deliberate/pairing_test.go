package deliberate

import "testing"

// TestAssignments_Cyclic verifies the round-robin property
// reviewer(i) = authors[(i+1) mod n] for several author counts.
func TestAssignments_Cyclic(t *testing.T) {
	tests := []struct {
		name    string
		authors []ID
	}{
		{
			name:    "two authors swap",
			authors: []ID{"a", "b"},
		},
		{
			name:    "three authors rotate",
			authors: []ID{"a", "b", "c"},
		},
		{
			name:    "five authors rotate",
			authors: []ID{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments := Assignments(tt.authors)

			if len(assignments) != len(tt.authors) {
				t.Fatalf("got %d assignments, want %d", len(assignments), len(tt.authors))
			}

			seen := make(map[ID]bool)
			for i, asn := range assignments {
				if asn.Author != tt.authors[i] {
					t.Errorf("assignment %d author = %q, want %q", i, asn.Author, tt.authors[i])
				}
				want := tt.authors[(i+1)%len(tt.authors)]
				if asn.Reviewer != want {
					t.Errorf("assignment %d reviewer = %q, want %q", i, asn.Reviewer, want)
				}
				if asn.Reviewer == asn.Author {
					t.Errorf("assignment %d pairs %q with itself", i, asn.Author)
				}
				if seen[asn.Author] {
					t.Errorf("author %q appears more than once", asn.Author)
				}
				seen[asn.Author] = true
			}
		})
	}
}

// TestAssignments_Degenerate verifies that fewer than two authors produce
// no assignments: a sole agent must never be paired with itself.
func TestAssignments_Degenerate(t *testing.T) {
	if got := Assignments(nil); got != nil {
		t.Errorf("Assignments(nil) = %v, want nil", got)
	}
	if got := Assignments([]ID{}); got != nil {
		t.Errorf("Assignments(empty) = %v, want nil", got)
	}
	if got := Assignments([]ID{"solo"}); got != nil {
		t.Errorf("Assignments(single) = %v, want nil", got)
	}
}

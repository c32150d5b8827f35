package deliberate

// Assignments computes the round-robin reviewer-for-author pairing used in
// peer critique: reviewer(i) = authors[(i+1) mod n].
//
// The input is the ordered sequence of identities currently holding a valid
// artifact (order = the session's stable member order). Every author appears
// exactly once and a reviewer never reviews itself.
//
// Fewer than two authors yields no assignments: peer review cannot occur,
// and pairing the sole agent with itself is explicitly excluded. The caller
// treats that as a mode-level precondition, not a per-agent failure.
func Assignments(authors []ID) []Assignment {
	if len(authors) < 2 {
		return nil
	}

	out := make([]Assignment, 0, len(authors))
	for i, author := range authors {
		out = append(out, Assignment{
			Author:   author,
			Reviewer: authors[(i+1)%len(authors)],
		})
	}
	return out
}

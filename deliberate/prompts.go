package deliberate

import "strings"

// Prompt builders for each stage. Each builder conveys exactly the
// information the stage needs: the shared input, the texts under
// discussion, and the role the agent is asked to play. The input content
// and question are opaque; the orchestrator never inspects them.

// initialPrompt asks one agent for its independent first-pass analysis.
func initialPrompt(input string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following material from a researcher's perspective ")
	sb.WriteString("and address the key points.\n\n")
	sb.WriteString("---\n")
	sb.WriteString(input)
	sb.WriteString("\n---\n")
	return sb.String()
}

// reviewPrompt asks a reviewer to critique another agent's answer.
func reviewPrompt(author ID, authorText string) string {
	var sb strings.Builder
	sb.WriteString("The following is another analyst's answer to a shared question.\n")
	sb.WriteString("Your role: critic. Point out logical errors, missing data, weak ")
	sb.WriteString("evidence, or areas needing improvement, concretely and as bullet points.\n\n")
	sb.WriteString("Answer under review (written by ")
	sb.WriteString(string(author))
	sb.WriteString("):\n---\n")
	sb.WriteString(authorText)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Your critique:\n")
	return sb.String()
}

// revisePrompt asks an author to revise its own answer in light of a
// reviewer's critique. The author may keep its position where the critique
// does not hold, with a brief justification.
func revisePrompt(initialText string, reviewer ID, critique string) string {
	var sb strings.Builder
	sb.WriteString("A reviewer has critiqued your initial answer. Incorporate the ")
	sb.WriteString("valid points and write a revised final answer. Where you judge a ")
	sb.WriteString("point invalid, briefly explain why and keep your position.\n\n")
	sb.WriteString("Your initial answer:\n---\n")
	sb.WriteString(initialText)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Critique (from ")
	sb.WriteString(string(reviewer))
	sb.WriteString("):\n---\n")
	sb.WriteString(critique)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Your revised final answer:\n")
	return sb.String()
}

// synthesisPrompt asks the chosen synthesizer to combine every valid final
// answer into one consensus report. Contributions arrive in session member
// order.
func synthesisPrompt(input string, contributions []Artifact) string {
	var sb strings.Builder
	sb.WriteString("The following are several analysts' answers to the same question. ")
	sb.WriteString("Identify the agreements and disagreements, then write the single ")
	sb.WriteString("most useful consolidated analysis.\n\n")
	sb.WriteString("Original input:\n")
	sb.WriteString(input)
	sb.WriteString("\n\n---\n")
	for _, art := range contributions {
		sb.WriteString("Answer from ")
		sb.WriteString(string(art.Author))
		sb.WriteString(":\n")
		sb.WriteString(art.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("---\n\n")
	sb.WriteString("Write the consensus report in this form:\n\n")
	sb.WriteString("## Agreements\n")
	sb.WriteString("- points where the answers concur\n\n")
	sb.WriteString("## Differences\n")
	sb.WriteString("- points where perspective or emphasis diverges\n\n")
	sb.WriteString("## Recommended analysis\n")
	sb.WriteString("- the consolidated analysis and recommendations most useful for follow-up work\n")
	return sb.String()
}

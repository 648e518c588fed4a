// Package generation asks a hosted model for new questions modeled on a
// sample of originals and parses the free-text reply.
package generation

import (
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

const promptHeader = `You are an expert educational assistant.

Read the following multiple-choice questions and generate 8 to 10 new original questions of similar topic and difficulty.

Each generated question must:
- Have exactly 4 options labeled A to D
- Clearly indicate the correct option like: "Correct: C"
- Follow this format:

1. Sample question?
A. Option 1
B. Option 2
C. Option 3
D. Option 4
Correct: B

Original questions:
`

const promptFooter = `
Now generate the new questions:
`

// BuildPrompt renders the generation prompt with the source questions
// listed as "<index>. <text>".
func BuildPrompt(req models.GenerationRequest) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	for _, q := range req.SourceQuestions {
		fmt.Fprintf(&sb, "%d. %s\n", q.Index, q.QuestionText)
	}
	sb.WriteString(promptFooter)
	return sb.String()
}

package questions

import (
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// ComposeResult is the final blended question list.
type ComposeResult struct {
	Questions     []models.Question
	AITaken       int
	OriginalTaken int
}

// GeneratedTarget is ceil(size * 0.7) in integer arithmetic.
func GeneratedTarget(size int) int {
	return (size*7 + 9) / 10
}

// Compose blends generated and selected questions so that about 70% of the
// result is generated. Generated questions whose text matches a selected
// original are skipped. Any generated shortfall is filled from the front of
// selected, so the result has len(selected) items whenever selected is
// non-empty. Generated questions come first, then originals.
func Compose(selected, generated []models.Question) ComposeResult {
	size := len(selected)
	aiTarget := GeneratedTarget(size)

	originals := make(map[string]struct{}, size)
	for _, q := range selected {
		originals[q.QuestionText] = struct{}{}
	}

	out := make([]models.Question, 0, size)
	for _, q := range generated {
		if len(out) >= aiTarget {
			break
		}
		if _, dup := originals[q.QuestionText]; dup {
			continue
		}
		out = append(out, q)
	}
	aiTaken := len(out)

	originalTarget := size - aiTaken
	out = append(out, selected[:originalTarget]...)

	return ComposeResult{Questions: out, AITaken: aiTaken, OriginalTaken: originalTarget}
}

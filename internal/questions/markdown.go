package questions

import (
	"regexp"
	"strings"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

var (
	mdQuestionStart = regexp.MustCompile(`^(\d+)[.)]\s*(.+)$`)
	mdOption        = regexp.MustCompile(`(?i)^([A-D])[.)]\s*(.+)$`)
	mdAnswer        = regexp.MustCompile(`(?i)\b(?:correct|answer|right|key|solution):\s*([A-D])\b`)
)

// ParseMarkdown scans cleaned Markdown line by line. A numbered line opens a
// new draft; lettered lines add options; the first answer line
// ("Correct: B", "Answer: b", "Key: C", ...) fixes the answer and later ones
// are ignored. Lines before the first numbered line are skipped.
//
// Every opened draft is returned, complete or not; NormalizeMarkdown keeps
// only those with at least two options and an answer.
func ParseMarkdown(text string) []models.DraftQuestion {
	var drafts []models.DraftQuestion
	var current *models.DraftQuestion

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := mdQuestionStart.FindStringSubmatch(line); m != nil {
			if current != nil {
				drafts = append(drafts, *current)
			}
			current = &models.DraftQuestion{QuestionText: strings.TrimSpace(m[2])}
			continue
		}
		if current == nil {
			continue
		}

		if m := mdOption.FindStringSubmatch(line); m != nil {
			current.Options = append(current.Options, strings.TrimSpace(m[2]))
			continue
		}
		if current.CorrectAnswerLetter == "" {
			if m := mdAnswer.FindStringSubmatch(line); m != nil {
				current.CorrectAnswerLetter = strings.ToUpper(m[1])
			}
		}
	}
	if current != nil {
		drafts = append(drafts, *current)
	}
	return drafts
}

// ExtractFromMarkdown parses and normalizes already-cleaned Markdown text.
func ExtractFromMarkdown(text string) ([]models.Question, int) {
	return NormalizeMarkdown(ParseMarkdown(text))
}

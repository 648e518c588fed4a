package generation

import (
	"regexp"
	"strings"

	"github.com/Epistemic-Technology/assessa-mcp/internal/questions"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

const generatedOptionCount = 4

var (
	blockStart     = regexp.MustCompile(`^\d+\.\s`)
	leadingOrdinal = regexp.MustCompile(`^\d+\.\s*`)
	blockOption    = regexp.MustCompile(`(?i)^([A-D])[.)]\s*(.+)$`)
	blockCorrect   = regexp.MustCompile(`(?i)^Correct:\s*([A-D])`)
)

// Block is one parsed segment of model output. Exactly one of Question and
// Rejected is set.
type Block struct {
	Question *models.Question
	// Rejected is the reason the block was not usable.
	Rejected string
}

// SplitBlocks cuts model output before every line that starts with
// "<N>. ". Text ahead of the first marker forms its own block. Blank
// blocks are discarded.
func SplitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []string
	var current []string
	flush := func() {
		if b := strings.TrimSpace(strings.Join(current, "\n")); b != "" {
			blocks = append(blocks, b)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if blockStart.MatchString(line) && len(current) > 0 {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// ParseBlock reads one block: the first line is the question text with its
// ordinal stripped, lettered lines are options, and the last "Correct:" line
// names the answer. Exactly four options and an answer are required.
func ParseBlock(block string) Block {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return Block{Rejected: "empty block"}
	}

	q := models.Question{
		QuestionText:  strings.TrimSpace(leadingOrdinal.ReplaceAllString(lines[0], "")),
		CorrectAnswer: -1,
		Marks:         models.DefaultMarks,
		Type:          models.QuestionTypeMCQ,
		Origin:        models.OriginGenerated,
	}
	for _, line := range lines[1:] {
		if m := blockOption.FindStringSubmatch(line); m != nil {
			q.Options = append(q.Options, strings.TrimSpace(m[2]))
			continue
		}
		if m := blockCorrect.FindStringSubmatch(line); m != nil {
			q.CorrectAnswer = strings.IndexByte("ABCD", strings.ToUpper(m[1])[0])
		}
	}

	switch {
	case len(q.Options) != generatedOptionCount:
		return Block{Rejected: "expected 4 options"}
	case q.CorrectAnswer < 0:
		return Block{Rejected: "no correct answer"}
	}
	if err := questions.Validate(q); err != nil {
		return Block{Rejected: err.Error()}
	}
	return Block{Question: &q}
}

// ParseBlocks splits and parses model output in order.
func ParseBlocks(text string) []Block {
	raw := SplitBlocks(text)
	blocks := make([]Block, 0, len(raw))
	for _, b := range raw {
		blocks = append(blocks, ParseBlock(b))
	}
	return blocks
}

// Accepted returns the questions of the usable blocks and the number rejected.
func Accepted(blocks []Block) ([]models.Question, int) {
	var qs []models.Question
	rejected := 0
	for _, b := range blocks {
		if b.Question == nil {
			rejected++
			continue
		}
		qs = append(qs, *b.Question)
	}
	return qs, rejected
}

package questions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

const (
	minOptions    = 2
	maxPDFOptions = 4
)

// letterIndex maps "A".."D" to 0..3 and anything else to -1.
func letterIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	return strings.IndexByte("ABCD", letter[0]&^0x20)
}

// NormalizePDF keeps drafts with 2 to 4 options and an answer letter that
// indexes one of them. It returns the questions and the number dropped.
func NormalizePDF(drafts []models.DraftQuestion) ([]models.Question, int) {
	return normalize(drafts, maxPDFOptions)
}

// NormalizeMarkdown keeps drafts with at least two options and a resolved
// answer that indexes one of them.
func NormalizeMarkdown(drafts []models.DraftQuestion) ([]models.Question, int) {
	return normalize(drafts, 0)
}

func normalize(drafts []models.DraftQuestion, maxOptions int) ([]models.Question, int) {
	out := make([]models.Question, 0, len(drafts))
	dropped := 0
	for _, d := range drafts {
		if maxOptions > 0 && len(d.Options) > maxOptions {
			dropped++
			continue
		}
		q := models.Question{
			QuestionText:  strings.TrimSpace(d.QuestionText),
			Options:       d.Options,
			CorrectAnswer: letterIndex(d.CorrectAnswerLetter),
			Marks:         models.DefaultMarks,
			Type:          models.QuestionTypeMCQ,
			Origin:        models.OriginOriginal,
		}
		if Validate(q) != nil {
			dropped++
			continue
		}
		out = append(out, q)
	}
	return out, dropped
}

// Validation failures returned by Validate.
var (
	ErrEmptyText     = errors.New("question text is empty")
	ErrTooFewOptions = errors.New("fewer than two options")
	ErrAnswerRange   = errors.New("correct answer out of range")
	ErrBadMarks      = errors.New("marks must be positive")
	ErrBadType       = errors.New("unsupported question type")
)

// Validate checks the invariants every stored question satisfies.
func Validate(q models.Question) error {
	switch {
	case strings.TrimSpace(q.QuestionText) == "":
		return ErrEmptyText
	case len(q.Options) < minOptions:
		return ErrTooFewOptions
	case q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options):
		return ErrAnswerRange
	case q.Marks < 1:
		return ErrBadMarks
	case q.Type != models.QuestionTypeMCQ:
		return ErrBadType
	}
	return nil
}

// ValidateAll returns an error naming the first invalid question.
func ValidateAll(qs []models.Question) error {
	for i, q := range qs {
		if err := Validate(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

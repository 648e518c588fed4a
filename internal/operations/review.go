package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Epistemic-Technology/assessa-mcp/internal/questions"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// ErrEmptyQuestions rejects an update that would leave an assessment empty.
var ErrEmptyQuestions = errors.New("an assessment needs at least one question")

// ReplaceQuestions validates edited questions and stores them in place of the
// assessment's current list. Missing marks, type and origin take the
// defaults. Nothing is written if any question is invalid.
func ReplaceQuestions(ctx context.Context, store storage.Store, id string, qs []models.Question) ([]models.Question, error) {
	if len(qs) == 0 {
		return nil, ErrEmptyQuestions
	}

	edited := make([]models.Question, len(qs))
	for i, q := range qs {
		if q.Marks == 0 {
			q.Marks = models.DefaultMarks
		}
		if q.Type == "" {
			q.Type = models.QuestionTypeMCQ
		}
		if q.Origin == "" {
			q.Origin = models.OriginOriginal
		}
		edited[i] = q
	}

	if err := questions.ValidateAll(edited); err != nil {
		return nil, fmt.Errorf("invalid questions: %w", err)
	}
	if err := store.UpdateQuestions(ctx, id, edited); err != nil {
		return nil, err
	}
	return edited, nil
}

package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

type QuestionInput struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`   // 0-based index into options
	Marks         int      `json:"marks,omitempty"`  // default 1
	Origin        string   `json:"origin,omitempty"` // original or generated
}

type QuestionsUpdateQuery struct {
	AssessmentID string          `json:"assessment_id"`
	Questions    []QuestionInput `json:"questions"`
}

type QuestionsUpdateResponse struct {
	AssessmentID string            `json:"assessment_id"`
	Questions    []models.Question `json:"questions"`
	Count        int               `json:"count"`
}

func QuestionsUpdateTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuestionsUpdateQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "questions-update",
		Description: "Replace the questions of an assessment with an edited list. Every question needs text, at least two options and a correct_answer index within them; nothing is saved if any question is invalid.",
		InputSchema: inputschema,
	}
}

func QuestionsUpdateToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuestionsUpdateQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *QuestionsUpdateResponse, error) {
	log.Info("questions-update tool called for %s", query.AssessmentID)
	if query.AssessmentID == "" {
		return nil, nil, errors.New("assessment_id is required")
	}

	qs := make([]models.Question, 0, len(query.Questions))
	for _, in := range query.Questions {
		qs = append(qs, models.Question{
			QuestionText:  in.QuestionText,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			Marks:         in.Marks,
			Type:          models.QuestionTypeMCQ,
			Origin:        models.Origin(in.Origin),
		})
	}

	saved, err := operations.ReplaceQuestions(ctx, store, query.AssessmentID, qs)
	if err != nil {
		log.Warn("Rejected question update for %s: %v", query.AssessmentID, err)
		return nil, nil, err
	}
	return nil, &QuestionsUpdateResponse{AssessmentID: query.AssessmentID, Questions: saved, Count: len(saved)}, nil
}

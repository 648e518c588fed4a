package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
)

type AssessmentDeleteQuery struct {
	AssessmentID string `json:"assessment_id"`
}

type AssessmentDeleteResponse struct {
	AssessmentID string `json:"assessment_id"`
	Deleted      bool   `json:"deleted"`
}

func AssessmentDeleteTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AssessmentDeleteQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "assessment-delete",
		Description: "Delete an assessment and its questions.",
		InputSchema: inputschema,
	}
}

func AssessmentDeleteToolHandler(ctx context.Context, req *mcp.CallToolRequest, query AssessmentDeleteQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *AssessmentDeleteResponse, error) {
	log.Info("assessment-delete tool called for %s", query.AssessmentID)
	if query.AssessmentID == "" {
		return nil, nil, errors.New("assessment_id is required")
	}

	if err := store.DeleteAssessment(ctx, query.AssessmentID); err != nil {
		return nil, nil, err
	}
	return nil, &AssessmentDeleteResponse{AssessmentID: query.AssessmentID, Deleted: true}, nil
}

package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
)

type AssessmentApproveQuery struct {
	AssessmentID string `json:"assessment_id"`
}

type AssessmentApproveResponse struct {
	AssessmentID string `json:"assessment_id"`
	Approved     bool   `json:"approved"`
}

func AssessmentApproveTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AssessmentApproveQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "assessment-approve",
		Description: "Approve a pending assessment after review so it can be assigned.",
		InputSchema: inputschema,
	}
}

func AssessmentApproveToolHandler(ctx context.Context, req *mcp.CallToolRequest, query AssessmentApproveQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *AssessmentApproveResponse, error) {
	log.Info("assessment-approve tool called for %s", query.AssessmentID)
	if query.AssessmentID == "" {
		return nil, nil, errors.New("assessment_id is required")
	}

	if err := store.ApproveAssessment(ctx, query.AssessmentID); err != nil {
		return nil, nil, err
	}
	return nil, &AssessmentApproveResponse{AssessmentID: query.AssessmentID, Approved: true}, nil
}

package tools

import (
	"context"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

type AssessmentListQuery struct {
	Status string `json:"status,omitempty"` // pending, approved or all (default)
}

type AssessmentSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject,omitempty"`
	GradeLevel    string `json:"grade_level,omitempty"`
	Difficulty    string `json:"difficulty"`
	SourceFormat  string `json:"source_format"`
	Approved      bool   `json:"approved"`
	QuestionCount int    `json:"question_count"`
	TotalMarks    int    `json:"total_marks"`
	CreatedAt     string `json:"created_at"` // RFC 3339
	ResourcePath  string `json:"resource_path"`
}

type AssessmentListResponse struct {
	Assessments []AssessmentSummary `json:"assessments"`
	Count       int                 `json:"count"`
}

func summarize(info models.AssessmentInfo) AssessmentSummary {
	return AssessmentSummary{
		ID:            info.ID,
		Title:         info.Title,
		Subject:       info.Subject,
		GradeLevel:    info.GradeLevel,
		Difficulty:    string(info.Difficulty),
		SourceFormat:  string(info.SourceFormat),
		Approved:      info.Approved,
		QuestionCount: info.QuestionCount,
		TotalMarks:    info.TotalMarks,
		CreatedAt:     info.CreatedAt.Format(time.RFC3339),
		ResourcePath:  storage.CalculateResourcePaths(info.ID, 0)[0],
	}
}

func AssessmentListTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AssessmentListQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "assessment-list",
		Description: "List stored assessments, newest first. Filter with status \"pending\" (awaiting review) or \"approved\".",
		InputSchema: inputschema,
	}
}

func AssessmentListToolHandler(ctx context.Context, req *mcp.CallToolRequest, query AssessmentListQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *AssessmentListResponse, error) {
	log.Info("assessment-list tool called")

	status, err := storage.ParseStatus(query.Status)
	if err != nil {
		return nil, nil, err
	}
	infos, err := store.ListAssessments(ctx, status)
	if err != nil {
		log.Error("Failed to list assessments: %v", err)
		return nil, nil, err
	}

	summaries := make([]AssessmentSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, summarize(info))
	}
	return nil, &AssessmentListResponse{Assessments: summaries, Count: len(summaries)}, nil
}

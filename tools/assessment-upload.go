package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

type AssessmentUploadQuery struct {
	ZoteroID      string `json:"zotero_id,omitempty"`
	URL           string `json:"url,omitempty"`
	RawData       []byte `json:"raw_data,omitempty"`
	Filename      string `json:"filename,omitempty"`  // Used with mime_type to choose PDF or Markdown parsing
	MIMEType      string `json:"mime_type,omitempty"` // e.g. "application/pdf", "text/markdown"
	Title         string `json:"title,omitempty"`
	Subject       string `json:"subject,omitempty"`
	GradeLevel    string `json:"grade_level,omitempty"`
	TimeLimit     int    `json:"time_limit,omitempty"`     // Minutes (default 30)
	PerDifficulty bool   `json:"per_difficulty,omitempty"` // Run a separate pipeline per difficulty
}

type AssessmentUploadResponse = operations.UploadResult

func AssessmentUploadTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AssessmentUploadQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "assessment-upload",
		Description: "Upload a PDF or Markdown multiple-choice assessment. Questions are extracted, about half are sampled, new questions in the same style are generated, and the blended set is stored as pending assessments for the easy, medium, hard and very hard difficulty labels.",
		InputSchema: inputschema,
	}
}

func AssessmentUploadToolHandler(ctx context.Context, req *mcp.CallToolRequest, query AssessmentUploadQuery, store storage.Store, gen operations.Generator, creds operations.SourceCredentials, log logger.Logger) (*mcp.CallToolResult, *AssessmentUploadResponse, error) {
	log.Info("assessment-upload tool called")

	params := operations.UploadParams{
		Source: models.SourceInfo{
			ZoteroID: query.ZoteroID,
			URL:      query.URL,
			Filename: query.Filename,
			MIMEType: query.MIMEType,
		},
		RawData:       query.RawData,
		Title:         query.Title,
		Subject:       query.Subject,
		GradeLevel:    query.GradeLevel,
		TimeLimit:     query.TimeLimit,
		PerDifficulty: query.PerDifficulty,
	}

	res, err := operations.UploadAssessment(ctx, store, gen, creds, params, log)
	if err != nil {
		log.Error("Assessment upload failed: %v", err)
		return nil, nil, err
	}

	count := 0
	if len(res.Assessments) > 0 {
		count = res.Assessments[0].QuestionCount
	}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Stored %d pending assessments for %q from a %s file with %d questions each.",
					len(res.Assessments), res.Title, res.SourceFormat.Label(), count),
			},
		},
	}
	return result, res, nil
}

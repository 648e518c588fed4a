package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/documents"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

type QuestionsExtractQuery struct {
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
	RawData  []byte `json:"raw_data,omitempty"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

type QuestionsExtractResponse struct {
	SourceFormat models.SourceFormat `json:"source_format"`
	Questions    []models.Question   `json:"questions"`
	Count        int                 `json:"count"`
}

func QuestionsExtractTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuestionsExtractQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "questions-extract",
		Description: "Extract the multiple-choice questions of a PDF or Markdown file without generating or storing anything. Useful for checking how a file will be read before uploading it.",
		InputSchema: inputschema,
	}
}

func QuestionsExtractToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuestionsExtractQuery, creds operations.SourceCredentials, log logger.Logger) (*mcp.CallToolResult, *QuestionsExtractResponse, error) {
	log.Info("questions-extract tool called")

	doc, err := operations.FetchDocument(ctx, query.RawData, models.SourceInfo{
		ZoteroID: query.ZoteroID,
		URL:      query.URL,
		Filename: query.Filename,
		MIMEType: query.MIMEType,
	}, creds)
	if err != nil {
		return nil, nil, err
	}

	format := documents.ClassifyFormat(doc.Filename, doc.MIMEType, doc.Data)
	qs, err := operations.ExtractQuestions(doc.Data, format, log)
	if err != nil {
		return nil, nil, err
	}

	return nil, &QuestionsExtractResponse{SourceFormat: format, Questions: qs, Count: len(qs)}, nil
}

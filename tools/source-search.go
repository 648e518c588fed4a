package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
)

type SourceSearchQuery struct {
	Query      string   `json:"query,omitempty"`      // Quick search text (searches title, creator, year)
	Tags       []string `json:"tags,omitempty"`       // Filter by tags
	Collection string   `json:"collection,omitempty"` // Filter by collection key (optional)
	Limit      int      `json:"limit,omitempty"`      // Max results (default 25)
}

type SourceSearchResponse struct {
	Items []operations.SourceItem `json:"items"`
	Count int                     `json:"count"`
}

func SourceSearchTool() *mcp.Tool {
	inputschema, err := jsonschema.For[SourceSearchQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "source-search",
		Description: "Search a Zotero library for items with PDF or Markdown attachments that can be uploaded as assessments. Pass an attachment key as zotero_id to assessment-upload or questions-extract.",
		InputSchema: inputschema,
	}
}

func SourceSearchToolHandler(ctx context.Context, req *mcp.CallToolRequest, query SourceSearchQuery, creds operations.SourceCredentials, log logger.Logger) (*mcp.CallToolResult, *SourceSearchResponse, error) {
	log.Info("source-search tool called")

	items, err := operations.SearchSources(ctx, creds, operations.SourceSearchParams{
		Query:      query.Query,
		Tags:       query.Tags,
		Collection: query.Collection,
		Limit:      query.Limit,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	return nil, &SourceSearchResponse{Items: items, Count: len(items)}, nil
}

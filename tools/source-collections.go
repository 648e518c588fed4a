package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
)

type SourceCollectionsQuery struct {
	ParentCollection string `json:"parent_collection,omitempty"` // List subcollections of this key
}

type SourceCollectionsResponse struct {
	Collections []operations.SourceCollection `json:"collections"`
	Count       int                           `json:"count"`
}

func SourceCollectionsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[SourceCollectionsQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "source-collections",
		Description: "List Zotero collections. Use a collection key to scope source-search.",
		InputSchema: inputschema,
	}
}

func SourceCollectionsToolHandler(ctx context.Context, req *mcp.CallToolRequest, query SourceCollectionsQuery, creds operations.SourceCredentials, log logger.Logger) (*mcp.CallToolResult, *SourceCollectionsResponse, error) {
	log.Info("source-collections tool called")

	collections, err := operations.ListSourceCollections(ctx, creds, query.ParentCollection, log)
	if err != nil {
		return nil, nil, err
	}
	return nil, &SourceCollectionsResponse{Collections: collections, Count: len(collections)}, nil
}

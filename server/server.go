package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/config"
	"github.com/Epistemic-Technology/assessa-mcp/internal/generation"
	"github.com/Epistemic-Technology/assessa-mcp/internal/llm"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/operations"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/resources"
	"github.com/Epistemic-Technology/assessa-mcp/tools"
)

func CreateServer(ctx context.Context, cfg *config.Config, log logger.Logger) *mcp.Server {
	store, err := initializeStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}

	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize question generator: %v", err)
	}

	return NewServer(store, generation.NewAdapter(gen, cfg.GenerationTimeout, log), operations.SourceCredentials{
		ZoteroAPIKey:    cfg.ZoteroAPIKey,
		ZoteroLibraryID: cfg.ZoteroLibraryID,
	}, log)
}

// NewServer registers every tool and resource template against the given
// dependencies.
func NewServer(store storage.Store, gen operations.Generator, creds operations.SourceCredentials, log logger.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "assessa-mcp", Version: "v0.1.0"}, nil)

	assessmentResourceHandler := resources.NewAssessmentResourceHandler(store)

	mcp.AddTool(server, tools.AssessmentUploadTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.AssessmentUploadQuery) (*mcp.CallToolResult, *tools.AssessmentUploadResponse, error) {
		return tools.AssessmentUploadToolHandler(ctx, req, query, store, gen, creds, log)
	})

	mcp.AddTool(server, tools.QuestionsExtractTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuestionsExtractQuery) (*mcp.CallToolResult, *tools.QuestionsExtractResponse, error) {
		return tools.QuestionsExtractToolHandler(ctx, req, query, creds, log)
	})

	mcp.AddTool(server, tools.AssessmentListTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.AssessmentListQuery) (*mcp.CallToolResult, *tools.AssessmentListResponse, error) {
		return tools.AssessmentListToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.AssessmentApproveTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.AssessmentApproveQuery) (*mcp.CallToolResult, *tools.AssessmentApproveResponse, error) {
		return tools.AssessmentApproveToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.QuestionsUpdateTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuestionsUpdateQuery) (*mcp.CallToolResult, *tools.QuestionsUpdateResponse, error) {
		return tools.QuestionsUpdateToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.AssessmentDeleteTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.AssessmentDeleteQuery) (*mcp.CallToolResult, *tools.AssessmentDeleteResponse, error) {
		return tools.AssessmentDeleteToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.SourceSearchTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.SourceSearchQuery) (*mcp.CallToolResult, *tools.SourceSearchResponse, error) {
		return tools.SourceSearchToolHandler(ctx, req, query, creds, log)
	})

	mcp.AddTool(server, tools.SourceCollectionsTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.SourceCollectionsQuery) (*mcp.CallToolResult, *tools.SourceCollectionsResponse, error) {
		return tools.SourceCollectionsToolHandler(ctx, req, query, creds, log)
	})

	// Template for the assessment with metadata
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "assessment://{assessmentId}",
		Name:        "assessment",
		Description: "Stored assessment with metadata, questions and total marks",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return assessmentResourceHandler.ReadResource(ctx, req.Params.URI)
	})

	// Template for questions
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "assessment://{assessmentId}/questions",
		Name:        "assessment-questions",
		Description: "All questions of the assessment in order",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return assessmentResourceHandler.ReadResource(ctx, req.Params.URI)
	})

	// Template for individual question
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "assessment://{assessmentId}/questions/{questionIndex}",
		Name:        "assessment-question",
		Description: "A specific question of the assessment (0-indexed)",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return assessmentResourceHandler.ReadResource(ctx, req.Params.URI)
	})

	return server
}

// initializeStorage creates and initializes the storage backend
func initializeStorage(cfg *config.Config, log logger.Logger) (storage.Store, error) {
	log.Info("Initializing SQLite database at: %s", cfg.DBPath)

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}
	return store, nil
}

// newGenerator picks the model backend. No OpenAI key means extraction-only
// uploads: the pipeline keeps the sampled originals.
func newGenerator(ctx context.Context, cfg *config.Config, log logger.Logger) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderBedrock:
		gen, err := llm.NewBedrockGenerator(ctx, cfg.BedrockRegion, cfg.Model)
		if err != nil {
			return nil, err
		}
		log.Info("Using Bedrock model %s in %s", cfg.Model, cfg.BedrockRegion)
		return gen, nil
	default:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, question generation disabled")
			return nil, nil
		}
		gen := llm.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model)
		log.Info("Using OpenAI model %s", gen.Name())
		return gen, nil
	}
}
